// Package intrinsics holds the three frozen, process-wide catalogues that
// the analyser and emitter consult: intrinsic variables, intrinsic
// functions, and the emission rewrite table (spec.md §3, §6). They are
// constructed once at init and never mutated, so sharing a compiler's
// catalogues across concurrent invocations is always safe.
package intrinsics

// Variables is the frozen set of SAAAM intrinsic variable names.
var Variables = map[string]bool{
	"position": true, "velocity": true, "size": true, "color": true,
	"rotation": true, "scale": true, "visible": true, "active": true,
	"tag": true, "components": true,
	"GRAVITY": true, "FRICTION": true, "MAX_FALL_SPEED": true,
	"delta_time": true, "current_time": true, "game_time": true,

	// Virtual-key constants (host namespace `vk` table, spec.md §6).
	"vk_left": true, "vk_right": true, "vk_up": true, "vk_down": true,
	"vk_space": true, "vk_enter": true, "vk_escape": true, "vk_shift": true,
}

// Functions is the frozen set of SAAAM intrinsic function names,
// including the four lifecycle functions.
var Functions = map[string]bool{
	"create": true, "step": true, "draw": true, "on_collision": true,

	"keyboard_check": true, "keyboard_check_pressed": true, "keyboard_check_released": true,
	"mouse_check": true, "mouse_check_pressed": true, "mouse_check_released": true,

	"draw_sprite": true, "draw_text": true, "draw_rectangle": true,
	"draw_circle": true, "draw_line": true,

	"play_sound": true, "play_music": true, "stop_sound": true, "stop_music": true,

	"vec2": true, "vec3": true,

	"point_distance": true, "check_collision": true,
	"create_object": true, "destroy_object": true,
	"find_object": true, "find_nearest": true,
}

// LifecycleFunctions names the four functions the emitter registers with
// the host namespace when declared at top level (spec.md §4.5).
var LifecycleFunctions = map[string]string{
	"create":       "registerCreate",
	"step":         "registerStep",
	"draw":         "registerDraw",
	"on_collision": "registerCollision",
}

// Rewrite is the fixed mapping from intrinsic identifier to its emitted
// host-namespaced form (spec.md §3, §6). This set is normative and closed:
// per §9's Open Question, an intrinsic not listed here is emitted verbatim
// rather than inferred into the table.
var Rewrite = map[string]string{
	"keyboard_check":          "H.keyboardCheck",
	"keyboard_check_pressed":  "H.keyboardCheckPressed",
	"keyboard_check_released": "H.keyboardCheckReleased",

	"draw_sprite":    "H.drawSprite",
	"draw_text":      "H.drawText",
	"draw_rectangle": "H.drawRectangle",
	"draw_circle":    "H.drawCircle",
	"draw_line":      "H.drawLine",

	"play_sound": "H.playSound",
	"play_music": "H.playMusic",

	"check_collision": "H.checkCollision",
	"point_distance":  "H.pointDistance",

	"delta_time":   "H.deltaTime",
	"current_time": "H.currentTime",

	"vk_left": "H.vk.left", "vk_right": "H.vk.right",
	"vk_up": "H.vk.up", "vk_down": "H.vk.down",
	"vk_space": "H.vk.space", "vk_enter": "H.vk.enter",
	"vk_escape": "H.vk.escape", "vk_shift": "H.vk.shift",
}

// ArityRule pins a minimum and, when exact is true, maximum argument count
// for an intrinsic function call (spec.md §4.4).
type ArityRule struct {
	Min   int
	Exact bool // Min is both the minimum and the maximum
}

// CallArity lists the intrinsic calls the analyser checks the argument
// count of. Calls to intrinsics outside this map are not arity-checked.
var CallArity = map[string]ArityRule{
	"keyboard_check":          {Min: 1, Exact: true},
	"keyboard_check_pressed":  {Min: 1, Exact: true},
	"keyboard_check_released": {Min: 1, Exact: true},
	"draw_sprite":             {Min: 3, Exact: false},
	"draw_text":               {Min: 3, Exact: false},
}

// IsIntrinsic reports whether name belongs to either catalogue.
func IsIntrinsic(name string) bool {
	return Variables[name] || Functions[name]
}

// AllNames returns every name known to either catalogue, for "did you
// mean" suggestion lookups.
func AllNames() []string {
	names := make([]string, 0, len(Variables)+len(Functions))
	for n := range Variables {
		names = append(names, n)
	}
	for n := range Functions {
		names = append(names, n)
	}
	return names
}
