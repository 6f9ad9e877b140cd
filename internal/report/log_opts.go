package report

import (
	"fmt"
	"text/template"
)

type LogOpt func(*Log) error

// WithPublisher forwards raw event payloads to the given bus.
func WithPublisher(p Publisher) LogOpt {
	return func(l *Log) error {
		l.pub = p
		return nil
	}
}

// WithTemplate overrides or adds the narration for one event name.
func WithTemplate(name, text string) LogOpt {
	return func(l *Log) error {
		tmpl, err := template.New(name).Funcs(templateFuncs).Parse(text)
		if err != nil {
			return fmt.Errorf("parsing template %q: %w", name, err)
		}
		l.templates[name] = tmpl
		return nil
	}
}
