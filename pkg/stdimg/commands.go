// Package stdimg: authoritative registry of stdlib engine commands.
//
// This file mirrors the commands implemented in ApplyCommandStdlib in
// pkg/stdimg/engine.go. Keep this list up-to-date when you add or
// modify commands so callers (CLI, docs, help text) can read a single
// source of truth.

package stdimg

// ArgSpec describes a single argument for a command. Fields are textual
// and intended for help/validation UI rather than machine-enforced typing.
type ArgSpec struct {
	Name        string // human name
	Type        string // "int", "float", "bool", "string", "path", etc.
	Required    bool
	Default     string // textual default (for help only)
	Description string
}

// CommandSpec defines a single command and its expected arguments.
type CommandSpec struct {
	Name        string
	Args        []ArgSpec
	Usage       string // short usage string
	Description string // brief description
}

// Commands is the authoritative list of commands implemented by the stdlib engine.
// Keep this synchronized with ApplyCommandStdlib in pkg/stdimg/engine.go.
var Commands = []CommandSpec{
	{
		Name:        "floodfillPaint",
		Args:        []ArgSpec{{"fillColor", "string", true, "", "CSS color or hex (e.g. #ff0000)"}, {"fuzz", "float_or_percent", true, "", "fuzz as Lab delta-E or percent (e.g. 5 or 50%)"}, {"borderColor", "string", false, "", "CSS color or hex for border or empty string"}, {"x", "int", true, "", "start x"}, {"y", "int", true, "", "start y"}, {"invert", "bool", false, "false", "invert fill region"}},
		Usage:       "floodfillPaint <fillColor> <fuzz> <borderColor> <x> <y> [invert]",
		Description: "Flood-fill region starting at (x,y) using perceptual fuzz (Lab delta-E).",
	},
	{
		Name:        "identify",
		Args:        []ArgSpec{},
		Usage:       "identify",
		Description: "Print image metadata; returns nil image.",
	},
	{
		Name:        "strip",
		Args:        []ArgSpec{},
		Usage:       "strip",
		Description: "Strip metadata; returns image unchanged.",
	},
	{
		Name:        "scanFill",
		Args:        []ArgSpec{{"fillColor", "string", true, "", "CSS color or hex (e.g. #ff0000)"}, {"fuzz", "float_or_percent", true, "", "fuzz as Lab delta-E or percent (e.g. 5 or 50%)"}, {"x", "int", true, "", "seed x"}, {"y", "int", true, "", "seed y"}},
		Usage:       "scanFill <fillColor> <fuzz> <x> <y>",
		Description: "Tile-parallel scanline flood fill starting at (x,y), writing fillColor in place (see pkg/scanfill).",
	},
	{
		Name:        "scanFillSelection",
		Args:        []ArgSpec{{"fuzz", "float_or_percent", true, "", "fuzz as Lab delta-E or percent"}, {"x", "int", true, "", "seed x"}, {"y", "int", true, "", "seed y"}, {"opacitySpread", "int", false, "0", "0..100; 0 = fully soft falloff, 100 = hard edge"}},
		Usage:       "scanFillSelection <fuzz> <x> <y> [opacitySpread]",
		Description: "Render the tile-parallel fill's selection mask (hard or soft) as a grayscale preview image.",
	},
	{
		Name:        "watershedGroup",
		Args:        []ArgSpec{{"fuzz", "float_or_percent", true, "", "fuzz as luminance delta or percent"}, {"x", "int", true, "", "seed x"}, {"y", "int", true, "", "seed y"}, {"groupIndex", "int", false, "1", "watershed group index to stamp"}},
		Usage:       "watershedGroup <fuzz> <x> <y> [groupIndex]",
		Description: "Claim the seed's connected luminance-similar region into a watershed group map (see pkg/scanfill fillContiguousGroup).",
	},
}
