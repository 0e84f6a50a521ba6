package chart

import "fmt"

// Theme is an immutable set of colors passed explicitly to every rendering
// call. Rendering never mutates shared state.
type Theme struct {
	Name       string
	Background string
	Text       string
	Green      string
	Red        string
	Palette    []string
}

// Default is a plain light theme.
func Default() Theme {
	return Theme{
		Name:       "default",
		Background: "#FFFFFF",
		Text:       "#000000",
		Green:      "#2CA02C",
		Red:        "#D62728",
		Palette: []string{
			"#1F77B4", // blue
			"#2CA02C", // green
			"#D62728", // red
			"#17BECF", // cyan
			"#9467BD", // magenta
			"#BCBD22", // yellow
		},
	}
}

// OneDark is the Atom One Dark palette.
func OneDark() Theme {
	return Theme{
		Name:       "onedark",
		Background: "#292C34",
		Text:       "#ABB2BF",
		Green:      "#98C379",
		Red:        "#E06C75",
		Palette: []string{
			"#61AFEF", // blue
			"#98C379", // green
			"#E06C75", // red
			"#56B6C2", // cyan
			"#C678DD", // magenta
			"#E5C07B", // yellow
		},
	}
}

// ByName resolves a theme by its name.
func ByName(name string) (Theme, error) {
	switch name {
	case "", "default":
		return Default(), nil
	case "onedark":
		return OneDark(), nil
	}
	return Theme{}, fmt.Errorf("unknown theme %q", name)
}
