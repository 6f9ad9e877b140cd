package report

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"text/template"

	"github.com/Masterminds/sprig/v3"
	"github.com/pixil98/go-fortress/internal/display"
	"github.com/pixil98/go-log"
)

// SubjectPrefix is the nats subject tree simulation events publish under.
// The event name is appended, e.g. "fortress.events.combat.hit".
const SubjectPrefix = "fortress.events"

// Publisher sends raw event payloads to external watchers.
type Publisher interface {
	Publish(subject string, data []byte) error
}

// templateFuncs provides utility functions for templates.
var templateFuncs = sprig.TxtFuncMap()

// defaultTemplates maps event names to human-readable narration.
// Templates access the emitted payload's fields via {{ .FieldName }}.
var defaultTemplates = map[string]string{
	"claim.expired":       `a {{ .Kind }} claim lapses and is up for grabs again`,
	"loot.settled":        `{{ .Resource }} comes to rest at ({{ printf "%.0f" .X }}, {{ printf "%.0f" .Y }})`,
	"loot.collected":      `{{ .Agent }} picks up {{ .Resource }}`,
	"depot.delivery":      `{{ .Agent }} hands over {{ .Total }} {{ plural "item" "items" .Total }} at the depot`,
	"build.requested":     `construction of a {{ .Blueprint }} is ordered at ({{ printf "%.0f" .X }}, {{ printf "%.0f" .Y }})`,
	"build.started":       `work begins on site {{ abbrev 13 .TaskId }}`,
	"build.completed":     `the {{ .Blueprint }} is finished`,
	"combat.hit":          `{{ .Attacker }} {{ .Verb }} {{ .Target }} for {{ .Damage }} damage`,
	"hostile.sighted":     `{{ .Name }} appears at the edge of the map`,
	"hostile.slain":       `{{ .Name }} is slain`,
	"structure.destroyed": `the {{ .Name }} is destroyed`,
	"dwarf.revived":       `{{ .Name }} staggers back to the depot`,
}

// Log narrates simulation events. Every event is rendered through its
// template and logged, and the raw payload is published on the event bus
// for anything watching from outside.
type Log struct {
	templates map[string]*template.Template
	pub       Publisher
}

func NewLog(opts ...LogOpt) (*Log, error) {
	l := &Log{
		templates: map[string]*template.Template{},
	}

	for name, text := range defaultTemplates {
		tmpl, err := template.New(name).Funcs(templateFuncs).Parse(text)
		if err != nil {
			return nil, fmt.Errorf("parsing template %q: %w", name, err)
		}
		l.templates[name] = tmpl
	}

	for _, opt := range opts {
		if err := opt(l); err != nil {
			return nil, err
		}
	}

	return l, nil
}

// Emit narrates one event and forwards its payload to the bus. Unknown
// event names still go out; they just narrate as their raw payload.
func (l *Log) Emit(ctx context.Context, name string, data any) {
	log.GetLogger(ctx).Infof("%s", display.Sentence(l.render(name, data)))

	if l.pub == nil {
		return
	}

	payload, err := json.Marshal(data)
	if err != nil {
		log.GetLogger(ctx).Warnf("marshaling %s event: %s", name, err)
		return
	}
	subject := fmt.Sprintf("%s.%s", SubjectPrefix, name)
	if err := l.pub.Publish(subject, payload); err != nil {
		log.GetLogger(ctx).Warnf("publishing %s event: %s", name, err)
	}
}

func (l *Log) render(name string, data any) string {
	tmpl, ok := l.templates[name]
	if !ok {
		return fmt.Sprintf("%s %+v", name, data)
	}

	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		return fmt.Sprintf("%s %+v", name, data)
	}
	return buf.String()
}
