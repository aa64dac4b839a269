// internal/verification/plate/engine.go
package plate

import (
	"field-verification/internal/verification/normalize"
)

// Mode tells which strategy produced a plate.
type Mode string

const (
	ModePreferred Mode = "preferred"
	ModeOpen      Mode = "open"
)

// Options bound the accepted recovery cost per mode.
type Options struct {
	PreferMaxCost float64
	OpenMaxCost   float64
}

func DefaultOptions() Options {
	return Options{PreferMaxCost: 2.5, OpenMaxCost: 6}
}

// Recovery is the detailed outcome of a recovery attempt. Plate is empty when
// nothing acceptable was found.
type Recovery struct {
	Plate     string  `json:"plate"`
	Cost      float64 `json:"cost"`
	Mode      Mode    `json:"mode"`
	Preferred bool    `json:"preferred"`
}

// Engine reconstructs registration numbers from noisy OCR text. It is safe
// for concurrent use.
type Engine struct {
	model *ConfusionModel
	opts  Options
}

func NewEngine(model *ConfusionModel, opts Options) *Engine {
	if model == nil {
		model = NewConfusionModel()
	}
	def := DefaultOptions()
	if opts.PreferMaxCost <= 0 {
		opts.PreferMaxCost = def.PreferMaxCost
	}
	if opts.OpenMaxCost <= 0 {
		opts.OpenMaxCost = def.OpenMaxCost
	}
	return &Engine{model: model, opts: opts}
}

// Recover returns the canonical plate for raw, or "".
func (e *Engine) Recover(raw string, preferred []string, preferredOnly bool) string {
	return e.RecoverDetailed(raw, preferred, preferredOnly).Plate
}

// RecoverDetailed runs preference matching when preferredOnly is set and the
// preference set is non-empty, and open grammar search otherwise.
func (e *Engine) RecoverDetailed(raw string, preferred []string, preferredOnly bool) Recovery {
	prefs := sortedUnique(preferred)
	if preferredOnly && len(prefs) > 0 {
		return e.matchPreferred(normalize.Alnum(raw), prefs)
	}
	return e.searchOpen(normalize.Alnum(raw), prefs)
}

// matchPreferred slides windows around each preferred plate's length and
// keeps the globally closest plate.
func (e *Engine) matchPreferred(s string, prefs []string) Recovery {
	res := Recovery{Mode: ModePreferred}
	if s == "" {
		return res
	}

	bestPlate, bestCost := "", -1.0
	for _, p := range prefs {
		lo := max(6, len(p)-2)
		hi := min(len(s), len(p)+2)
		for w := lo; w <= hi; w++ {
			for i := 0; i+w <= len(s); i++ {
				d := e.model.Distance(s[i:i+w], p)
				if bestCost < 0 || d < bestCost {
					bestPlate, bestCost = p, d
				}
			}
		}
	}

	if bestCost < 0 || bestCost > e.opts.PreferMaxCost {
		return res
	}
	res.Plate = bestPlate
	res.Cost = bestCost
	res.Preferred = true
	return res
}

type ranked struct {
	Candidate
	preferred bool
	seq       int
}

// better orders by preferred first, then cost, then longer plate, then first
// seen.
func (r ranked) better(o ranked) bool {
	if r.preferred != o.preferred {
		return r.preferred
	}
	if r.Cost != o.Cost {
		return r.Cost < o.Cost
	}
	if len(r.Text) != len(o.Text) {
		return len(r.Text) > len(o.Text)
	}
	return r.seq < o.seq
}

// searchOpen enumerates grammar candidates over every 8-12 character window.
func (e *Engine) searchOpen(s string, prefs []string) Recovery {
	res := Recovery{Mode: ModeOpen}
	if len(s) < minPlateLen {
		return res
	}

	prefSet := make(map[string]struct{}, len(prefs))
	for _, p := range prefs {
		prefSet[p] = struct{}{}
	}

	var best *ranked
	seq := 0
	for w := minPlateLen; w <= maxPlateLen && w <= len(s); w++ {
		for i := 0; i+w <= len(s); i++ {
			for _, c := range e.model.Candidates(s[i : i+w]) {
				_, isPref := prefSet[c.Text]
				r := ranked{Candidate: c, preferred: isPref, seq: seq}
				seq++
				if best == nil || r.better(*best) {
					cp := r
					best = &cp
				}
			}
		}
	}

	if best == nil || best.Cost > e.opts.OpenMaxCost {
		return res
	}
	res.Plate = best.Text
	res.Cost = best.Cost
	res.Preferred = best.preferred
	return res
}
