package invite

import (
	"context"
	"io"
	"strings"

	"github.com/aliuyar1234/studioinvite/internal/studio"
)

func stringsReader(s string) io.Reader {
	return strings.NewReader(s)
}

type postCall struct {
	path    string
	payload any
}

type fakePoster struct {
	calls   []postCall
	respond func(path string) (*studio.Response, error)
}

func (f *fakePoster) PostJSON(ctx context.Context, sess studio.Session, path string, payload any) (*studio.Response, error) {
	f.calls = append(f.calls, postCall{path: path, payload: payload})
	return f.respond(path)
}

func (f *fakePoster) paths() []string {
	out := make([]string, 0, len(f.calls))
	for _, c := range f.calls {
		out = append(out, c.path)
	}
	return out
}
