package welcome

import (
	"charm.land/lipgloss/v2"

	"github.com/abhisek/studyquiz/internal/ui/theme"
)

var (
	bannerStyle  = lipgloss.NewStyle().Foreground(theme.Primary).Bold(true)
	taglineStyle = lipgloss.NewStyle().Foreground(theme.TextDim).Italic(true)
)

const (
	wideBanner = `
 ┏━┓╺┳╸╻ ╻╺┳┓╻ ╻┏━┓╻ ╻╻╺━┓
 ┗━┓ ┃ ┃ ┃ ┃┃┗┳┛┃┓┃┃ ┃┃┏━┛
 ┗━┛ ╹ ┗━┛╺┻┛ ╹ ┗┻┛┗━┛╹┗━╸`
	narrowBanner = "S T U D Y Q U I Z"
	tagline      = "one question at a time"
	wideFrom     = 40
)

func banner(width int) string {
	if width < wideFrom {
		return bannerStyle.Render(narrowBanner)
	}
	return lipgloss.JoinVertical(lipgloss.Center, bannerStyle.Render(wideBanner), "", taglineStyle.Render(tagline))
}
