package phrase

import "context"

// ProjectLister lists projects.
type ProjectLister interface {
	ListProjects(ctx context.Context) ([]Project, error)
}

// LocaleLister lists the locales of a project.
type LocaleLister interface {
	ListLocales(ctx context.Context, projectID string) ([]Locale, error)
}

// FindProject fetches the project list once and returns the first project
// whose name equals name exactly.
func FindProject(ctx context.Context, api ProjectLister, name string) (Project, error) {
	projects, err := api.ListProjects(ctx)
	if err != nil {
		return Project{}, err
	}
	p, ok := find(projects, func(p Project) bool { return p.Name == name })
	if !ok {
		return Project{}, &ProjectNotFoundError{Name: name}
	}
	return p, nil
}

// FindLocale fetches the locales of project once and returns the first
// locale whose name equals name exactly.
func FindLocale(ctx context.Context, api LocaleLister, project Project, name string) (Locale, error) {
	locales, err := api.ListLocales(ctx, project.ID)
	if err != nil {
		return Locale{}, err
	}
	l, ok := find(locales, func(l Locale) bool { return l.Name == name })
	if !ok {
		return Locale{}, &LocaleNotFoundError{Name: name, Project: project.Name}
	}
	return l, nil
}

func find[T any](items []T, match func(T) bool) (T, bool) {
	for _, it := range items {
		if match(it) {
			return it, true
		}
	}
	var zero T
	return zero, false
}
