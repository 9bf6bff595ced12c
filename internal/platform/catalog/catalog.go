package catalog

import (
	_ "embed"
	"fmt"
	"os"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"

	apperrors "urworld/internal/platform/errors"
)

//go:embed default_catalog.yaml
var defaultCatalog []byte

// Question is one multiple-choice item. Answer indexes Options.
type Question struct {
	Prompt      string   `yaml:"prompt"`
	Options     []string `yaml:"options"`
	Answer      int      `yaml:"answer"`
	Explanation string   `yaml:"explanation"`
}

// ModuleDescriptor is the static metadata for one content module and the
// quiz bound to it.
type ModuleDescriptor struct {
	ModuleID      string
	QuizID        string
	Subject       string
	SequenceIndex int
	Title         string
	QuizTitle     string
}

type Subject struct {
	ID      string
	Title   string
	Modules []ModuleDescriptor
}

type fileQuiz struct {
	ID        string     `yaml:"id"`
	Title     string     `yaml:"title"`
	Questions []Question `yaml:"questions"`
}

type fileModule struct {
	ID       string   `yaml:"id"`
	Sequence int      `yaml:"sequence"`
	Title    string   `yaml:"title"`
	Quiz     fileQuiz `yaml:"quiz"`
}

type fileSubject struct {
	ID      string       `yaml:"id"`
	Title   string       `yaml:"title"`
	Modules []fileModule `yaml:"modules"`
}

type fileCatalog struct {
	Subjects []fileSubject `yaml:"subjects"`
}

// Catalog is the immutable module/quiz table. Build it with Parse, Load or
// Default; all of them validate before returning.
type Catalog struct {
	subjects  []Subject
	modules   map[string]ModuleDescriptor
	quizzes   map[string]string
	questions map[string][]Question
}

func Default() (*Catalog, error) {
	return Parse(defaultCatalog)
}

// Load reads a catalog file, falling back to the built-in table when path
// does not exist.
func Load(path string) (*Catalog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return Default()
		}
		return nil, fmt.Errorf("read catalog: %w", err)
	}
	c, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return c, nil
}

func Parse(data []byte) (*Catalog, error) {
	var raw fileCatalog
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("%w: %v", apperrors.ErrInvalidCatalog, err)
	}
	return build(raw)
}

func build(raw fileCatalog) (*Catalog, error) {
	invalid := func(format string, args ...any) error {
		return fmt.Errorf("%w: %s", apperrors.ErrInvalidCatalog, fmt.Sprintf(format, args...))
	}
	if len(raw.Subjects) == 0 {
		return nil, invalid("no subjects")
	}
	c := &Catalog{
		modules:   map[string]ModuleDescriptor{},
		quizzes:   map[string]string{},
		questions: map[string][]Question{},
	}
	seenSubjects := map[string]bool{}
	for _, fs := range raw.Subjects {
		subjectID := strings.TrimSpace(fs.ID)
		if subjectID == "" {
			return nil, invalid("subject without id")
		}
		if seenSubjects[subjectID] {
			return nil, invalid("duplicate subject %q", subjectID)
		}
		seenSubjects[subjectID] = true
		if len(fs.Modules) == 0 {
			return nil, invalid("subject %q has no modules", subjectID)
		}

		mods := append([]fileModule(nil), fs.Modules...)
		sort.SliceStable(mods, func(i, j int) bool { return mods[i].Sequence < mods[j].Sequence })
		subject := Subject{ID: subjectID, Title: fallback(fs.Title, subjectID)}
		for idx, fm := range mods {
			if fm.Sequence != idx {
				return nil, invalid("subject %q: sequence indices must run 0..%d without gaps, found %d", subjectID, len(mods)-1, fm.Sequence)
			}
			if fm.ID == "" {
				return nil, invalid("subject %q: module at sequence %d has no id", subjectID, idx)
			}
			if _, dup := c.modules[fm.ID]; dup {
				return nil, invalid("duplicate module %q", fm.ID)
			}
			if fm.Quiz.ID == "" {
				return nil, invalid("module %q has no quiz", fm.ID)
			}
			if owner, dup := c.quizzes[fm.Quiz.ID]; dup {
				return nil, invalid("quiz %q bound to both %q and %q", fm.Quiz.ID, owner, fm.ID)
			}
			if err := validateQuestions(fm.Quiz); err != nil {
				return nil, invalid("%v", err)
			}
			desc := ModuleDescriptor{
				ModuleID:      fm.ID,
				QuizID:        fm.Quiz.ID,
				Subject:       subjectID,
				SequenceIndex: idx,
				Title:         fallback(fm.Title, fm.ID),
				QuizTitle:     fallback(fm.Quiz.Title, fm.Quiz.ID),
			}
			subject.Modules = append(subject.Modules, desc)
			c.modules[desc.ModuleID] = desc
			c.quizzes[desc.QuizID] = desc.ModuleID
			c.questions[desc.QuizID] = append([]Question(nil), fm.Quiz.Questions...)
		}
		c.subjects = append(c.subjects, subject)
	}
	return c, nil
}

func validateQuestions(q fileQuiz) error {
	if len(q.Questions) == 0 {
		return fmt.Errorf("quiz %q has no questions", q.ID)
	}
	for i, question := range q.Questions {
		if strings.TrimSpace(question.Prompt) == "" {
			return fmt.Errorf("quiz %q question %d has no prompt", q.ID, i+1)
		}
		if len(question.Options) < 2 {
			return fmt.Errorf("quiz %q question %d needs at least two options", q.ID, i+1)
		}
		if question.Answer < 0 || question.Answer >= len(question.Options) {
			return fmt.Errorf("quiz %q question %d answer %d out of range", q.ID, i+1, question.Answer)
		}
	}
	return nil
}

func fallback(v, def string) string {
	if strings.TrimSpace(v) == "" {
		return def
	}
	return v
}

func (c *Catalog) Subjects() []Subject {
	out := make([]Subject, len(c.subjects))
	for i, s := range c.subjects {
		out[i] = Subject{ID: s.ID, Title: s.Title, Modules: append([]ModuleDescriptor(nil), s.Modules...)}
	}
	return out
}

func (c *Catalog) SubjectIDs() []string {
	ids := make([]string, len(c.subjects))
	for i, s := range c.subjects {
		ids[i] = s.ID
	}
	return ids
}

func (c *Catalog) SubjectTitle(id string) string {
	for _, s := range c.subjects {
		if s.ID == id {
			return s.Title
		}
	}
	return id
}

// Modules lists every module, subjects in catalog order, modules in sequence.
func (c *Catalog) Modules() []ModuleDescriptor {
	var out []ModuleDescriptor
	for _, s := range c.subjects {
		out = append(out, s.Modules...)
	}
	return out
}

func (c *Catalog) SubjectModules(subject string) []ModuleDescriptor {
	for _, s := range c.subjects {
		if s.ID == subject {
			return append([]ModuleDescriptor(nil), s.Modules...)
		}
	}
	return nil
}

func (c *Catalog) Module(moduleID string) (ModuleDescriptor, bool) {
	m, ok := c.modules[moduleID]
	return m, ok
}

func (c *Catalog) ModuleForQuiz(quizID string) (ModuleDescriptor, bool) {
	moduleID, ok := c.quizzes[quizID]
	if !ok {
		return ModuleDescriptor{}, false
	}
	return c.modules[moduleID], true
}

// Previous returns the module before moduleID in its subject.
func (c *Catalog) Previous(moduleID string) (ModuleDescriptor, bool) {
	return c.offset(moduleID, -1)
}

// Next returns the module after moduleID in its subject.
func (c *Catalog) Next(moduleID string) (ModuleDescriptor, bool) {
	return c.offset(moduleID, 1)
}

func (c *Catalog) offset(moduleID string, delta int) (ModuleDescriptor, bool) {
	m, ok := c.modules[moduleID]
	if !ok {
		return ModuleDescriptor{}, false
	}
	mods := c.SubjectModules(m.Subject)
	idx := m.SequenceIndex + delta
	if idx < 0 || idx >= len(mods) {
		return ModuleDescriptor{}, false
	}
	return mods[idx], true
}

func (c *Catalog) Questions(quizID string) []Question {
	return append([]Question(nil), c.questions[quizID]...)
}
