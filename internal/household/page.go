package household

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"time"

	"go.uber.org/zap"

	"github.com/calvinalkan/homebase/internal/store"
	"github.com/calvinalkan/homebase/internal/theme"
	"github.com/calvinalkan/homebase/internal/view"
)

// Module names accepted by [PageOptions.Disabled].
const ModuleTheme = "theme"

// Modules lists every module name in layout order.
func Modules() []string {
	return []string{KeyHabits, KeyMeals, KeyGroceries, KeyTasks, ModuleTheme}
}

// IsModule reports whether name is a module.
func IsModule(name string) bool {
	return slices.Contains(Modules(), name)
}

// PageOptions configures [NewPage].
type PageOptions struct {
	Members Members

	// Disabled modules get no document regions and never mount.
	Disabled []string

	// ThemePolicy is the theme default when nothing is persisted.
	ThemePolicy string

	// Now is the clock used by the theme policy.
	Now func() time.Time

	Log *zap.Logger
}

// Page is the context object of one session: the document, the adapter,
// and the controllers, built once and passed to every operation.
type Page struct {
	Doc       *view.Document
	Adapter   *store.Adapter
	Habits    *Controller[Habit]
	Meals     *Controller[Meal]
	Groceries *Groceries
	Tasks     *Controller[Task]
	Members   Members

	theme        *theme.Controller
	themeEnabled bool
	log          *zap.Logger
}

// NewPage lays out the document and builds the controllers.
func NewPage(adapter *store.Adapter, opts PageOptions) (*Page, error) {
	members := opts.Members.Trimmed()
	if members == (Members{}) {
		members = DefaultMembers
	}

	if err := members.Validate(); err != nil {
		return nil, err
	}

	for _, name := range opts.Disabled {
		if !IsModule(name) {
			return nil, fmt.Errorf("%w: %s", ErrUnknownModule, name)
		}
	}

	log := opts.Log
	if log == nil {
		log = zap.NewNop()
	}

	enabled := func(module string) bool {
		return !slices.Contains(opts.Disabled, module)
	}

	doc := view.NewDocument()

	if enabled(KeyHabits) {
		doc.AddRegion(RegionHabits, "Habits")
	}

	if enabled(KeyMeals) {
		doc.AddRegion(RegionMeals, "Meal plan")
		doc.AddRegion(RegionMealLog, "Meal log")
	}

	if enabled(KeyGroceries) {
		doc.AddRegion(RegionGroceryActive, "Groceries")
		doc.AddRegion(RegionGroceryArchive, "Groceries (done)")
	}

	if enabled(KeyTasks) {
		for _, member := range members {
			doc.AddRegion(TaskRegion(member), "Tasks for "+member)
		}
	}

	themeCtrl, err := theme.NewController(adapter, doc, theme.Options{
		Policy: opts.ThemePolicy,
		Now:    opts.Now,
		Log:    log.With(zap.String("module", ModuleTheme)),
	})
	if err != nil {
		return nil, err
	}

	page := &Page{
		Doc:          doc,
		Adapter:      adapter,
		Habits:       NewController(adapter, doc, log, HabitSchema()),
		Meals:        NewController(adapter, doc, log, MealSchema()),
		Groceries:    &Groceries{NewController(adapter, doc, log, GrocerySchema())},
		Tasks:        NewController(adapter, doc, log, TaskSchema(members)),
		Members:      members,
		theme:        themeCtrl,
		themeEnabled: enabled(ModuleTheme),
		log:          log,
	}

	disablers := map[string]func(){
		KeyHabits:    page.Habits.disable,
		KeyMeals:     page.Meals.disable,
		KeyGroceries: page.Groceries.disable,
		KeyTasks:     page.Tasks.disable,
	}

	for _, name := range opts.Disabled {
		if disable, ok := disablers[name]; ok {
			disable()
		}

		log.Debug("module disabled by configuration", zap.String("module", name))
	}

	return page, nil
}

// Mount initializes every module. A module that fails is logged and left
// empty; the others still mount. The joined failures are returned.
func (p *Page) Mount(ctx context.Context) error {
	steps := []struct {
		name string
		init func(context.Context) error
	}{
		{ModuleTheme, p.initTheme},
		{KeyHabits, p.Habits.Initialize},
		{KeyMeals, p.Meals.Initialize},
		{KeyGroceries, p.Groceries.Initialize},
		{KeyTasks, p.Tasks.Initialize},
	}

	var errs []error

	for _, step := range steps {
		if err := step.init(ctx); err != nil {
			p.log.Error("module failed to initialize", zap.String("module", step.name), zap.Error(err))
			errs = append(errs, fmt.Errorf("%s: %w", step.name, err))
		}
	}

	return errors.Join(errs...)
}

func (p *Page) initTheme(ctx context.Context) error {
	if !p.themeEnabled {
		return nil
	}

	return p.theme.Initialize(ctx)
}

// Theme returns the theme controller, or [ErrModuleDisabled].
func (p *Page) Theme() (*theme.Controller, error) {
	if !p.themeEnabled {
		return nil, fmt.Errorf("%w: %s", ErrModuleDisabled, ModuleTheme)
	}

	return p.theme, nil
}
