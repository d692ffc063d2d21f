package model

// Menu is the display structure handed to the menu-bar shell. It is a pure
// projection of one poll's results plus cached repo activity; the shell only
// renders it and reports clicks.
type Menu struct {
	Sections     []MenuSection
	Badge        string
	ReviewCount  int
	CreatedCount int
}

// MenuSection is one labeled block of the menu. Title is empty when only a
// single kind of PR is present and the section renders unlabeled.
type MenuSection struct {
	Title  string
	Groups []MenuGroup
}

// MenuGroup is the per-repository grouping inside a section. For the
// empty-state recent-activity view, Repo is empty and Items carry repo links.
type MenuGroup struct {
	Repo  string
	Items []MenuItem
}

// MenuItem is a single clickable (or inert) menu row. URL is empty for
// non-interactive rows like the overflow marker and the all-clear placeholder.
type MenuItem struct {
	Label string
	URL   string
}
