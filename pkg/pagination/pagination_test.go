package pagination

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
)

func newContext(target string) echo.Context {
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, target, nil)
	return e.NewContext(req, httptest.NewRecorder())
}

func TestFromContext(t *testing.T) {
	tests := []struct {
		target     string
		wantLimit  int
		wantOffset int
	}{
		{"/", DefaultLimit, 0},
		{"/?limit=50&offset=10", 50, 10},
		{"/?limit=500", MaxLimit, 0},
		{"/?offset=-5", DefaultLimit, 0},
		{"/?limit=10&page=3", 10, 20},
		{"/?limit=10&page=3&offset=5", 10, 5},
		{"/?limit=abc", DefaultLimit, 0},
	}
	for _, tt := range tests {
		p := FromContext(newContext(tt.target))
		if p.Limit != tt.wantLimit || p.Offset != tt.wantOffset {
			t.Errorf("%s: got limit=%d offset=%d, want %d/%d", tt.target, p.Limit, p.Offset, tt.wantLimit, tt.wantOffset)
		}
	}
}

func TestNewResponse_HasMore(t *testing.T) {
	if r := NewResponse([]int{1, 2}, 5, 2, 0); !r.HasMore {
		t.Error("expected has_more on first page")
	}
	if r := NewResponse([]int{5}, 5, 2, 4); r.HasMore {
		t.Error("expected no more on last page")
	}
}

func TestParams_Offsets(t *testing.T) {
	p := Params{Limit: 10, Offset: 5}
	if p.NextOffset() != 15 {
		t.Errorf("expected next 15, got %d", p.NextOffset())
	}
	if p.PreviousOffset() != 0 {
		t.Errorf("expected previous clamped to 0, got %d", p.PreviousOffset())
	}
	if !p.HasPrevious() || p.HasNext(15) || !p.HasNext(16) {
		t.Error("unexpected HasPrevious/HasNext")
	}
}

func TestResponse_WithLinks(t *testing.T) {
	c := newContext("/api/v1/appointments?limit=2&offset=2&sort=asc")
	r := NewResponse(nil, 10, 2, 2).WithLinks(c)

	if r.Links.Self != "/api/v1/appointments?limit=2&offset=2&sort=asc" {
		t.Errorf("unexpected self %q", r.Links.Self)
	}
	if r.Links.Next != "/api/v1/appointments?limit=2&offset=4&sort=asc" {
		t.Errorf("unexpected next %q", r.Links.Next)
	}
	if r.Links.Previous != "/api/v1/appointments?limit=2&offset=0&sort=asc" {
		t.Errorf("unexpected previous %q", r.Links.Previous)
	}

	last := NewResponse(nil, 3, 2, 2).WithLinks(c)
	if last.Links.Next != "" {
		t.Errorf("expected no next link, got %q", last.Links.Next)
	}
}
