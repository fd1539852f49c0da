package cascade

import (
	"log"

	"github.com/tanema/gween/ease"
)

// easings maps normalized config names to gween easing functions.
var easings = map[string]ease.TweenFunc{
	"linear": ease.Linear,

	"inquad":    ease.InQuad,
	"outquad":   ease.OutQuad,
	"inoutquad": ease.InOutQuad,

	"incubic":    ease.InCubic,
	"outcubic":   ease.OutCubic,
	"inoutcubic": ease.InOutCubic,

	"inquart":    ease.InQuart,
	"outquart":   ease.OutQuart,
	"inoutquart": ease.InOutQuart,

	"inquint":    ease.InQuint,
	"outquint":   ease.OutQuint,
	"inoutquint": ease.InOutQuint,

	"insine":    ease.InSine,
	"outsine":   ease.OutSine,
	"inoutsine": ease.InOutSine,

	"inexpo":    ease.InExpo,
	"outexpo":   ease.OutExpo,
	"inoutexpo": ease.InOutExpo,

	"incirc":    ease.InCirc,
	"outcirc":   ease.OutCirc,
	"inoutcirc": ease.InOutCirc,

	"inback":    ease.InBack,
	"outback":   ease.OutBack,
	"inoutback": ease.InOutBack,

	"inelastic":    ease.InElastic,
	"outelastic":   ease.OutElastic,
	"inoutelastic": ease.InOutElastic,

	"inbounce":    ease.InBounce,
	"outbounce":   ease.OutBounce,
	"inoutbounce": ease.InOutBounce,
}

// EaseByName maps an authored easing name ("linear", "out-bounce",
// "InOutCubic", "ease-out-quad", ...) to a gween easing function. Unknown
// names fall back to linear with a logged warning; an empty name is linear
// without one.
func EaseByName(name string) ease.TweenFunc {
	if name == "" {
		return ease.Linear
	}
	key := normalizeName(name)
	// Tolerate CSS-style "ease-" prefixes.
	if len(key) > 4 && key[:4] == "ease" {
		key = key[4:]
	}
	if fn, ok := easings[key]; ok {
		return fn
	}
	log.Printf("cascade: unknown easing %q, using linear", name)
	return ease.Linear
}
