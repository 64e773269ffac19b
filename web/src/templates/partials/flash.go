// Package partials holds templ fragments shared by every layout.
package partials

import (
	"context"
	"io"

	"github.com/a-h/templ"
	"github.com/nfrund/wastewise/internal/view"
)

// Flash renders the one-shot banners of a page.
func Flash(data view.FlashData) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		if data.Empty() {
			return nil
		}
		if _, err := io.WriteString(w, `<div id="flash" class="flash">`); err != nil {
			return err
		}
		for _, group := range []struct {
			variant  string
			messages []string
		}{
			{"success", data.Success},
			{"error", data.Error},
			{"info", data.Info},
		} {
			for _, msg := range group.messages {
				html := `<div class="alert alert-` + group.variant + `" role="alert">` + templ.EscapeString(msg) + `</div>`
				if _, err := io.WriteString(w, html); err != nil {
					return err
				}
			}
		}
		_, err := io.WriteString(w, `</div>`)
		return err
	})
}
