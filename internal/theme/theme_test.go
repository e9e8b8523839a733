package theme_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/calvinalkan/homebase/internal/kv"
	"github.com/calvinalkan/homebase/internal/store"
	"github.com/calvinalkan/homebase/internal/theme"
	"github.com/calvinalkan/homebase/internal/view"
)

func at(hour int) func() time.Time {
	return func() time.Time {
		return time.Date(2024, time.May, 1, hour, 30, 0, 0, time.Local)
	}
}

type fixture struct {
	kv   *kv.Memory
	doc  *view.Document
	ctrl *theme.Controller
}

func newFixture(t *testing.T, opts theme.Options) fixture {
	t.Helper()

	backing := kv.NewMemory(0)
	doc := view.NewDocument()

	ctrl, err := theme.NewController(store.New(backing, nil), doc, opts)
	if err != nil {
		t.Fatalf("new controller: %v", err)
	}

	return fixture{kv: backing, doc: doc, ctrl: ctrl}
}

func (f fixture) stored(t *testing.T) string {
	t.Helper()

	value, ok, err := f.kv.Get(context.Background(), theme.Key)
	if err != nil {
		t.Fatalf("get theme: %v", err)
	}

	if !ok {
		return ""
	}

	return string(value)
}

func Test_ForHour_Splits_Day_And_Night(t *testing.T) {
	t.Parallel()

	tests := []struct {
		hour int
		want theme.Mode
	}{
		{0, theme.Dark},
		{5, theme.Dark},
		{6, theme.Light},
		{12, theme.Light},
		{17, theme.Light},
		{18, theme.Dark},
		{23, theme.Dark},
	}

	for _, tt := range tests {
		if got := theme.ForHour(tt.hour); got != tt.want {
			t.Errorf("ForHour(%d)=%q, want=%q", tt.hour, got, tt.want)
		}
	}
}

func Test_Initialize_Without_Stored_Value_Uses_Time_Of_Day(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		hour  int
		want  theme.Mode
		label string
	}{
		{name: "morning", hour: 7, want: theme.Light, label: "Switch to Dark Theme"},
		{name: "evening", hour: 20, want: theme.Dark, label: "Switch to Light Theme"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			f := newFixture(t, theme.Options{Now: at(tt.hour)})

			if err := f.ctrl.Initialize(context.Background()); err != nil {
				t.Fatalf("initialize: %v", err)
			}

			if got := f.ctrl.Mode(); got != tt.want {
				t.Fatalf("mode=%q, want=%q", got, tt.want)
			}

			if got := f.doc.Attr(view.ThemeAttr); got != string(tt.want) {
				t.Fatalf("attr=%q, want=%q", got, tt.want)
			}

			if got := f.doc.ToggleLabel(); got != tt.label {
				t.Fatalf("label=%q, want=%q", got, tt.label)
			}

			if got := f.stored(t); got != string(tt.want) {
				t.Fatalf("stored=%q, want=%q", got, tt.want)
			}
		})
	}
}

func Test_Initialize_Fixed_Policy_Ignores_Clock(t *testing.T) {
	t.Parallel()

	f := newFixture(t, theme.Options{Policy: theme.PolicyDark, Now: at(12)})

	if err := f.ctrl.Initialize(context.Background()); err != nil {
		t.Fatalf("initialize: %v", err)
	}

	if got, want := f.ctrl.Mode(), theme.Dark; got != want {
		t.Fatalf("mode=%q, want=%q", got, want)
	}
}

func Test_Initialize_Prefers_Stored_Value(t *testing.T) {
	t.Parallel()

	f := newFixture(t, theme.Options{Now: at(12)})
	_ = f.kv.Set(context.Background(), theme.Key, []byte("dark"))

	if err := f.ctrl.Initialize(context.Background()); err != nil {
		t.Fatalf("initialize: %v", err)
	}

	if got, want := f.ctrl.Mode(), theme.Dark; got != want {
		t.Fatalf("mode=%q, want=%q", got, want)
	}
}

func Test_Initialize_Ignores_Garbage_Stored_Value(t *testing.T) {
	t.Parallel()

	f := newFixture(t, theme.Options{Now: at(12)})
	_ = f.kv.Set(context.Background(), theme.Key, []byte("purple"))

	if err := f.ctrl.Initialize(context.Background()); err != nil {
		t.Fatalf("initialize: %v", err)
	}

	if got, want := f.ctrl.Mode(), theme.Light; got != want {
		t.Fatalf("mode=%q, want=%q", got, want)
	}

	if got, want := f.stored(t), "light"; got != want {
		t.Fatalf("stored=%q, want=%q", got, want)
	}
}

func Test_Toggle_Flips_And_Persists(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	f := newFixture(t, theme.Options{Now: at(9)})

	if err := f.ctrl.Initialize(ctx); err != nil {
		t.Fatalf("initialize: %v", err)
	}

	for _, want := range []theme.Mode{theme.Dark, theme.Light, theme.Dark} {
		got, err := f.ctrl.Toggle(ctx)
		if err != nil {
			t.Fatalf("toggle: %v", err)
		}

		if got != want {
			t.Fatalf("mode=%q, want=%q", got, want)
		}

		if stored := f.stored(t); stored != string(want) {
			t.Fatalf("stored=%q, want=%q", stored, want)
		}

		if attr := f.doc.Attr(view.ThemeAttr); attr != string(want) {
			t.Fatalf("attr=%q, want=%q", attr, want)
		}

		if label := f.doc.ToggleLabel(); label != want.Label() {
			t.Fatalf("label=%q, want=%q", label, want.Label())
		}
	}
}

func Test_Toggle_Failure_Leaves_Document_Unchanged(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	f := newFixture(t, theme.Options{Policy: theme.PolicyLight})

	if err := f.ctrl.Initialize(ctx); err != nil {
		t.Fatalf("initialize: %v", err)
	}

	_ = f.kv.Close()

	if _, err := f.ctrl.Toggle(ctx); !errors.Is(err, kv.ErrClosed) {
		t.Fatalf("err=%v, want=%v", err, kv.ErrClosed)
	}

	if got, want := f.doc.Attr(view.ThemeAttr), "light"; got != want {
		t.Fatalf("attr=%q, want=%q", got, want)
	}
}

func Test_Set_Rejects_Unknown_Mode(t *testing.T) {
	t.Parallel()

	f := newFixture(t, theme.Options{})

	if err := f.ctrl.Set(context.Background(), "sepia"); !errors.Is(err, theme.ErrInvalidMode) {
		t.Fatalf("err=%v, want=%v", err, theme.ErrInvalidMode)
	}
}

func Test_NewController_Rejects_Unknown_Policy(t *testing.T) {
	t.Parallel()

	_, err := theme.NewController(store.New(kv.NewMemory(0), nil), view.NewDocument(), theme.Options{Policy: "auto"})
	if !errors.Is(err, theme.ErrInvalidPolicy) {
		t.Fatalf("err=%v, want=%v", err, theme.ErrInvalidPolicy)
	}
}
