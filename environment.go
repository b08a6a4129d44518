package soilcheck

import "log/slog"

const fnValidateEnvironmentVariables = "ValidateEnvironmentVariables"

// EnvResult partitions a list of required environment variable names.
// Missing and Available together hold every requested name exactly once, in
// request order.
type EnvResult struct {
	IsValid   bool     `json:"isValid"`
	Missing   []string `json:"missing"`
	Available []string `json:"available"`
}

// ValidateEnvironmentVariables checks each name against the environment at
// call time. A name is available when it is set to a non-empty value. Nothing
// is cached.
func (v *Validator) ValidateEnvironmentVariables(names []string) (res EnvResult) {
	defer func() {
		if p := recover(); p != nil {
			v.recovered(fnValidateEnvironmentVariables, p, names)
			res = EnvResult{
				Missing:   append([]string{}, names...),
				Available: []string{},
			}
		}
	}()

	res = EnvResult{
		Missing:   []string{},
		Available: []string{},
	}
	for _, name := range names {
		if val, ok := v.lookup(name); ok && val != "" {
			res.Available = append(res.Available, name)
		} else {
			res.Missing = append(res.Missing, name)
		}
	}
	res.IsValid = len(res.Missing) == 0

	if !res.IsValid {
		v.reject(fnValidateEnvironmentVariables, ReasonMissingEnv, slog.Any("missing", res.Missing))
	}
	return res
}
