package config

import "fmt"

// Validate checks the configuration for inconsistencies and returns a list
// of human-readable problems. An empty slice means the config is usable.
func (c *Config) Validate() []string {
	var errs []string

	if len(c.RootFolders) == 0 {
		errs = append(errs, "at least one [[root_folder]] is required")
	}
	for _, rf := range c.RootFolders {
		if rf.Path == "" {
			errs = append(errs, "root_folder.path must not be empty")
		}
		if rf.QualityProfile != "" {
			if _, ok := c.Quality.Profiles[rf.QualityProfile]; !ok {
				errs = append(errs, fmt.Sprintf("root_folder %q references unknown quality profile %q", rf.Path, rf.QualityProfile))
			}
		}
		switch rf.Monitor {
		case "", "all", "existing", "none":
		default:
			errs = append(errs, fmt.Sprintf("root_folder %q: monitor must be all, existing or none", rf.Path))
		}
	}

	if c.Quality.Default != "" {
		if _, ok := c.Quality.Profiles[c.Quality.Default]; !ok {
			errs = append(errs, fmt.Sprintf("quality.default references unknown profile %q", c.Quality.Default))
		}
	}
	for name, profile := range c.Quality.Profiles {
		if len(profile.Accept) == 0 {
			errs = append(errs, fmt.Sprintf("quality profile %q has an empty accept list", name))
		}
	}

	switch c.Import.Mode {
	case "auto", "move", "copy":
	default:
		errs = append(errs, fmt.Sprintf("import.mode %q: must be auto, move or copy", c.Import.Mode))
	}

	if c.Search.MaxConcurrency < 1 {
		errs = append(errs, "search.max_concurrency must be at least 1")
	}

	for _, idx := range c.Indexers.Newznab {
		if idx.Name == "" {
			errs = append(errs, "indexers.newznab entries need a name")
		}
		if idx.URL == "" {
			errs = append(errs, fmt.Sprintf("indexer %q: url must not be empty", idx.Name))
		}
	}

	return errs
}
