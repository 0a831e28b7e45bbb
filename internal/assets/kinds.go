package assets

import "path/filepath"

// Kind is one category of ZBrush asset.
type Kind string

const (
	KindBrushes       Kind = "Brushes"
	KindMaterials     Kind = "Materials"
	KindTools         Kind = "Tools"
	KindFibers        Kind = "Fibers"
	KindProjects      Kind = "Projects"
	KindGrids         Kind = "Grids"
	KindArrayMesh     Kind = "Array Mesh"
	KindSpotlights    Kind = "Spotlights"
	KindRenderPresets Kind = "Render Presets"
	KindDocuments     Kind = "Documents"
)

// DefaultKind is the kind scanned when nothing else is configured.
const DefaultKind = KindBrushes

// Extensions maps each kind to the preset file extensions it matches.
var Extensions = map[Kind][]string{
	KindBrushes:       {".zbp"},
	KindMaterials:     {".zmt"},
	KindTools:         {".ztl"},
	KindFibers:        {".zfp"},
	KindProjects:      {".zpr"},
	KindGrids:         {".zgr"},
	KindArrayMesh:     {".zam"},
	KindSpotlights:    {".zsl"},
	KindRenderPresets: {".zrp"},
	KindDocuments:     {".zbr"},
}

// scanFolders lists the install-relative folders holding each kind, in
// priority order. The first folder wins identity collisions, which is why
// the bundled ZBrushes folder precedes the ZData and ZStartup preset
// directories.
var scanFolders = map[Kind][]string{
	KindBrushes:       {"ZBrushes", "ZData/BrushPresets", "ZStartup/BrushPresets"},
	KindMaterials:     {"ZMaterials", "ZData/Materials", "ZStartup/Materials"},
	KindTools:         {"ZTools"},
	KindFibers:        {"ZFibersPresets"},
	KindProjects:      {"ZProjects"},
	KindGrids:         {"ZGrids"},
	KindArrayMesh:     {"ZArraysPresets"},
	KindSpotlights:    {"ZSpotlights"},
	KindRenderPresets: {"ZRenderPresets"},
	KindDocuments:     {"ZDocs"},
}

// Valid reports whether k names a known asset kind.
func Valid(k Kind) bool {
	_, ok := Extensions[k]
	return ok
}

// RootsFor expands a ZBrush installation root into the prioritized scan
// root list for one kind. The result is empty for unknown kinds.
func RootsFor(installDir string, k Kind) []string {
	folders := scanFolders[k]
	roots := make([]string, 0, len(folders))
	for _, rel := range folders {
		roots = append(roots, filepath.Join(installDir, filepath.FromSlash(rel)))
	}
	return roots
}
