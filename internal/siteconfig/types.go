package siteconfig

import "fmt"

const (
	// MinPages and MaxPages bound the per-site page cap.
	MinPages = 1
	MaxPages = 10
)

// Selectors holds the ordered candidate selectors for each extracted field.
// Candidates are tried in order; the first one that matches wins.
type Selectors struct {
	Container []string `json:"product_container"`
	Title     []string `json:"title"`
	Price     []string `json:"price"`
	Discount  []string `json:"discount"`
	Image     []string `json:"image"`
	Link      []string `json:"link"`
	NextPage  []string `json:"next_page"`
}

// SiteConfig describes how to extract product listings from one site.
type SiteConfig struct {
	Key       string    `json:"-"`
	Name      string    `json:"name"`
	Selectors Selectors `json:"selectors"`
	WaitFor   string    `json:"wait_for"`
	PageCap   int       `json:"max_pages"`
}

// Validate checks the invariants every usable SiteConfig must hold.
func (c *SiteConfig) Validate() error {
	if len(c.Selectors.Container) == 0 {
		return fmt.Errorf("site %q: container selector list is empty", c.Key)
	}
	if len(c.Selectors.Title) == 0 {
		return fmt.Errorf("site %q: title selector list is empty", c.Key)
	}
	return nil
}

// normalize fills defaults and clamps the page cap into [MinPages, MaxPages].
func (c *SiteConfig) normalize() {
	if c.Name == "" {
		c.Name = c.Key
	}
	if c.PageCap < MinPages {
		c.PageCap = MinPages
	}
	if c.PageCap > MaxPages {
		c.PageCap = MaxPages
	}
}

// ClampPages bounds a requested page count into [MinPages, MaxPages].
// Zero means "no request value" and is returned unchanged so callers can
// fall back to the site's own cap.
func ClampPages(n int) int {
	if n == 0 {
		return 0
	}
	if n < MinPages {
		return MinPages
	}
	if n > MaxPages {
		return MaxPages
	}
	return n
}
