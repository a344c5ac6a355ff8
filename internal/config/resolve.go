package config

// Resolve layers defaults, the environment and the optional CUE file at
// cfgPath. Flags are applied by the caller on the returned value, which
// must then go through Validate.
func Resolve(cfgPath string, lookup func(string) (string, bool)) (Settings, error) {
	s := Defaults()
	if err := ApplyEnv(&s, lookup); err != nil {
		return Settings{}, err
	}
	if cfgPath == "" {
		return s, nil
	}
	f, err := ParseFile(cfgPath)
	if err != nil {
		return Settings{}, err
	}
	f.Apply(&s)
	return s, nil
}
