package scene

import (
	"fmt"
	"strings"

	zygo "github.com/glycerine/zygomys/zygo"
)

// kwPrefix is the marker prepended to keyword names by preprocessSource.
const kwPrefix = "__kw_"

// isKW checks whether a Sexp is a preprocessed keyword string, returning the
// keyword name without the prefix.
func isKW(s zygo.Sexp) (string, bool) {
	str, ok := s.(*zygo.SexpStr)
	if !ok {
		return "", false
	}
	if strings.HasPrefix(str.S, kwPrefix) {
		return str.S[len(kwPrefix):], true
	}
	return "", false
}

// kwArgs holds a parsed mixed positional+keyword argument list.
type kwArgs struct {
	kw         map[string]zygo.Sexp
	positional []zygo.Sexp
}

// parseArgs separates args into keyword and positional arguments. Keywords
// are identified by the __kw_ prefix added during preprocessing.
func parseArgs(args []zygo.Sexp) kwArgs {
	result := kwArgs{kw: make(map[string]zygo.Sexp)}
	i := 0
	for i < len(args) {
		name, ok := isKW(args[i])
		if !ok {
			result.positional = append(result.positional, args[i])
			i++
			continue
		}
		if i+1 < len(args) {
			result.kw[name] = args[i+1]
			i += 2
		} else {
			// Trailing keyword with no value acts as a true flag.
			result.kw[name] = &zygo.SexpBool{Val: true}
			i++
		}
	}
	return result
}

// toFloat64 extracts a float64 from a Sexp (SexpInt or SexpFloat).
func toFloat64(s zygo.Sexp) (float64, error) {
	switch v := s.(type) {
	case *zygo.SexpInt:
		return float64(v.Val), nil
	case *zygo.SexpFloat:
		return v.Val, nil
	}
	return 0, fmt.Errorf("expected number, got %T (%s)", s, s.SexpString(nil))
}

// toInt extracts an int from a Sexp.
func toInt(s zygo.Sexp) (int, error) {
	if v, ok := s.(*zygo.SexpInt); ok {
		return int(v.Val), nil
	}
	return 0, fmt.Errorf("expected integer, got %T (%s)", s, s.SexpString(nil))
}

// toString extracts a string from a Sexp.
func toString(s zygo.Sexp) (string, error) {
	if str, ok := s.(*zygo.SexpStr); ok {
		return str.S, nil
	}
	return "", fmt.Errorf("expected string, got %T (%s)", s, s.SexpString(nil))
}

// toBool extracts a bool from a Sexp.
func toBool(s zygo.Sexp) (bool, error) {
	if b, ok := s.(*zygo.SexpBool); ok {
		return b.Val, nil
	}
	return false, fmt.Errorf("expected bool, got %T (%s)", s, s.SexpString(nil))
}

// stringArg sets *dst from keyword kw if present.
func stringArg(pa kwArgs, form, kw string, dst *string) error {
	v, ok := pa.kw[kw]
	if !ok {
		return nil
	}
	s, err := toString(v)
	if err != nil {
		return fmt.Errorf("%s: %s: %w", form, kw, err)
	}
	*dst = s
	return nil
}

// floatArg sets *dst from keyword kw if present.
func floatArg(pa kwArgs, form, kw string, dst *float64) error {
	v, ok := pa.kw[kw]
	if !ok {
		return nil
	}
	f, err := toFloat64(v)
	if err != nil {
		return fmt.Errorf("%s: %s: %w", form, kw, err)
	}
	*dst = f
	return nil
}

// registerBuiltins installs the scene DSL forms into a zygomys environment.
// The builtins populate the provided Plan during evaluation. Source must be
// preprocessed with preprocessSource so :keyword tokens are recognizable.
func registerBuiltins(env *zygo.Zlisp, plan *Plan) {

	// -----------------------------------------------------------------------
	// (aperture :survey "survey.tsv" :profiles "profiles.tsv"
	//           :name "pipe" :thickness 1.0 :color "#4A90D9")
	// -----------------------------------------------------------------------
	env.AddFunction("aperture", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		pa := parseArgs(args)
		job := Job{
			Kind:      JobAperture,
			Name:      "aperture",
			Thickness: DefaultThickness,
		}

		if err := stringArg(pa, "aperture", "survey", &job.SurveyPath); err != nil {
			return zygo.SexpNull, err
		}
		if err := stringArg(pa, "aperture", "profiles", &job.SectionPath); err != nil {
			return zygo.SexpNull, err
		}
		if err := stringArg(pa, "aperture", "name", &job.Name); err != nil {
			return zygo.SexpNull, err
		}
		if err := stringArg(pa, "aperture", "color", &job.Color); err != nil {
			return zygo.SexpNull, err
		}
		if err := floatArg(pa, "aperture", "thickness", &job.Thickness); err != nil {
			return zygo.SexpNull, err
		}
		if job.SurveyPath == "" || job.SectionPath == "" {
			return zygo.SexpNull, fmt.Errorf("aperture: :survey and :profiles are required")
		}

		plan.Jobs = append(plan.Jobs, job)
		return zygo.SexpNull, nil
	})

	// -----------------------------------------------------------------------
	// (envelope :survey "survey.tsv" :stats "beam.tsv"
	//           :sigmas 3 :resolution 24 :name "beam" :color "#2ECC71")
	// -----------------------------------------------------------------------
	env.AddFunction("envelope", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		pa := parseArgs(args)
		job := Job{
			Kind:       JobEnvelope,
			Name:       "envelope",
			Sigmas:     DefaultSigmas,
			Resolution: DefaultResolution,
		}

		if err := stringArg(pa, "envelope", "survey", &job.SurveyPath); err != nil {
			return zygo.SexpNull, err
		}
		if err := stringArg(pa, "envelope", "stats", &job.SectionPath); err != nil {
			return zygo.SexpNull, err
		}
		if err := stringArg(pa, "envelope", "name", &job.Name); err != nil {
			return zygo.SexpNull, err
		}
		if err := stringArg(pa, "envelope", "color", &job.Color); err != nil {
			return zygo.SexpNull, err
		}
		if err := floatArg(pa, "envelope", "sigmas", &job.Sigmas); err != nil {
			return zygo.SexpNull, err
		}
		if v, ok := pa.kw["resolution"]; ok {
			n, err := toInt(v)
			if err != nil {
				return zygo.SexpNull, fmt.Errorf("envelope: resolution: %w", err)
			}
			job.Resolution = n
		}
		if job.SurveyPath == "" || job.SectionPath == "" {
			return zygo.SexpNull, fmt.Errorf("envelope: :survey and :stats are required")
		}

		plan.Jobs = append(plan.Jobs, job)
		return zygo.SexpNull, nil
	})

	// -----------------------------------------------------------------------
	// (output :obj "beamline.obj" :stl "beamline.stl" :per-run true)
	// -----------------------------------------------------------------------
	env.AddFunction("output", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		pa := parseArgs(args)

		if err := stringArg(pa, "output", "obj", &plan.Output.OBJPath); err != nil {
			return zygo.SexpNull, err
		}
		if err := stringArg(pa, "output", "stl", &plan.Output.STLPath); err != nil {
			return zygo.SexpNull, err
		}
		if v, ok := pa.kw["per-run"]; ok {
			b, err := toBool(v)
			if err != nil {
				return zygo.SexpNull, fmt.Errorf("output: per-run: %w", err)
			}
			plan.Output.PerRun = b
		}

		return zygo.SexpNull, nil
	})
}
