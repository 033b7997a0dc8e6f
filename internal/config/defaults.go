package config

const (
	defaultConfigPath         = "~/.config/tvrename/config.toml"
	projectConfigName         = "tvrename.toml"
	defaultTMDBBaseURL        = "https://api.themoviedb.org/3"
	defaultTMDBLanguage       = "en-US"
	defaultTMDBTimeoutSeconds = 10
	defaultMaxCandidates      = 3
	defaultTokenSortThreshold = 85
	defaultPartialThreshold   = 95
	defaultMinFragmentLength  = 3
	defaultRenamePattern      = "{n} - {s00e00} - {t}"
	defaultOrganization       = "TitanSoft"
	defaultApplication        = "SupeRenamer"
	defaultLogFormat          = "console"
	defaultLogLevel           = "info"
)

// DefaultExtensions lists the recognized video file extensions.
var DefaultExtensions = []string{".mkv", ".mp4", ".avi", ".mov", ".wmv", ".flv", ".webm"}

// DefaultPattern is the rename pattern used when none is configured.
const DefaultPattern = defaultRenamePattern

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		TMDB: TMDB{
			BaseURL:        defaultTMDBBaseURL,
			Language:       defaultTMDBLanguage,
			TimeoutSeconds: defaultTMDBTimeoutSeconds,
		},
		Matching: Matching{
			MaxCandidates:      defaultMaxCandidates,
			TokenSortThreshold: defaultTokenSortThreshold,
			PartialThreshold:   defaultPartialThreshold,
			MinFragmentLength:  defaultMinFragmentLength,
		},
		Scan: Scan{
			Extensions: append([]string(nil), DefaultExtensions...),
		},
		Rename: Rename{
			Pattern: defaultRenamePattern,
		},
		Paths: Paths{
			StateDir: defaultStateDir(),
		},
		Settings: Settings{
			Organization: defaultOrganization,
			Application:  defaultApplication,
		},
		Logging: Logging{
			Format: defaultLogFormat,
			Level:  defaultLogLevel,
		},
	}
}
