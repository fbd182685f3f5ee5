package book

// Edge is one viewport boundary constraint.
type Edge struct {
	Enabled bool `json:"enabled"`
	Offset  int  `json:"offset"`
}

// Boundaries holds the four independently toggled viewport edges.
type Boundaries struct {
	Top    Edge `json:"top"`
	Right  Edge `json:"right"`
	Bottom Edge `json:"bottom"`
	Left   Edge `json:"left"`
}

// Settings are the user-facing options persisted alongside the categories.
type Settings struct {
	BookModeEnabled   bool       `json:"bookModeEnabled"`
	Opacity           float64    `json:"opacity"`
	LockLayout        bool       `json:"lockLayout"`
	FontScale         float64    `json:"fontScale"`
	DefaultCategoryID string     `json:"defaultCategoryId"`
	ThemeColor        string     `json:"themeColor"`
	IsEnabled         bool       `json:"isEnabled"`
	AlwaysOnTop       bool       `json:"alwaysOnTop"`
	PageFlipAnimation bool       `json:"pageFlipAnimation"`
	PageFlipSpeed     float64    `json:"pageFlipSpeed"`
	PageFlipStyle     string     `json:"pageFlipStyle"`
	AutoPaginate      bool       `json:"autoPaginate"`
	PaginateLimit     int        `json:"paginateLimit"`
	Boundaries        Boundaries `json:"boundaries"`
}

// fallbackPaginateLimit applies when the stored limit is unusable.
const fallbackPaginateLimit = 2000

// DefaultSettings returns the settings of a fresh install.
func DefaultSettings() Settings {
	return Settings{
		BookModeEnabled:   true,
		Opacity:           0.1,
		FontScale:         1.3,
		IsEnabled:         true,
		AlwaysOnTop:       true,
		PageFlipAnimation: true,
		PageFlipSpeed:     0.2,
		PageFlipStyle:     "flip",
		AutoPaginate:      true,
		PaginateLimit:     3000,
		Boundaries: Boundaries{
			Top:    Edge{Enabled: true},
			Right:  Edge{Enabled: true},
			Bottom: Edge{Enabled: true, Offset: 1},
			Left:   Edge{Enabled: true},
		},
	}
}

// Limit returns the pagination limit in characters.
func (s Settings) Limit() int {
	if s.PaginateLimit <= 0 {
		return fallbackPaginateLimit
	}
	return s.PaginateLimit
}
