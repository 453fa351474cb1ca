package wizard

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/fiabamia/fiaba/internal/api"
	"github.com/fiabamia/fiaba/internal/session"
)

// Styles
var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("205")).
			MarginLeft(2)

	promptStyle = lipgloss.NewStyle().
			Bold(true)

	hintStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("241"))

	selectedStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("42")).
			Bold(true)

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("196"))

	helpStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("241")).
			MarginTop(1)

	stepBarStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("241")).
			MarginLeft(2)
)

// choice is one selectable option of a list step.
type choice struct {
	id    string
	label string
}

// Message types
type sessionMsg *session.Session
type titlesMsg []api.TitleVariant
type previewMsg *PreviewResult
type stepErrMsg struct{ err error }

// Model is the wizard TUI: one model whose view and key handling follow
// the current step.
type Model struct {
	flow    *Flow
	actions *Actions
	store   session.Store

	step     Step
	sess     *session.Session
	choices  []choice
	selected int
	input    textinput.Model
	question int

	titles  []api.TitleVariant
	preview *PreviewResult

	spinner spinner.Model
	busy    bool
	err     error

	quitting bool
}

// NewModel builds the wizard starting at the session's first incomplete
// step, or at the gift choice for a fresh session.
func NewModel(flow *Flow, actions *Actions, store session.Store) Model {
	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = lipgloss.NewStyle().Foreground(lipgloss.Color("205"))

	ti := textinput.New()
	ti.CharLimit = 500
	ti.Width = 60

	sess, _ := store.Current()
	m := Model{
		flow:    flow,
		actions: actions,
		store:   store,
		sess:    sess,
		spinner: s,
		input:   ti,
	}
	m.enter(FirstIncomplete(sess))
	return m
}

// Init starts the spinner.
func (m Model) Init() tea.Cmd {
	return m.spinner.Tick
}

// enter prepares the model for a step: its option list, its input field
// and its position inside the questionnaire.
func (m *Model) enter(step Step) {
	m.step = step
	m.err = nil
	m.selected = 0
	m.input.Blur()

	switch step {
	case StepGift:
		m.choices = []choice{{"gift", "A gift for someone"}, {"self", "A book about me"}}
	case StepOccasion:
		m.choices = nil
		for _, o := range Occasions {
			m.choices = append(m.choices, choice{o.ID, o.Label})
		}
	case StepCharacter:
		m.choices = []choice{{"person", "A person"}, {"pet", "A pet"}}
		m.input.Placeholder = "Their name"
		m.input.SetValue(m.characterName())
		m.input.Focus()
	case StepGender:
		m.choices = []choice{
			{string(session.GenderFemale), "Female"},
			{string(session.GenderMale), "Male"},
			{string(session.GenderNonBinary), "Non-binary"},
			{string(session.GenderUndisclosed), "Prefer not to say"},
		}
	case StepQuestions:
		m.question = 0
		m.prepareQuestion()
	case StepGenre:
		m.choices = nil
		for _, g := range Genres {
			m.choices = append(m.choices, choice{g.ID, g.Label})
		}
	case StepEmail:
		m.choices = nil
		m.input.Placeholder = "you@example.com"
		m.input.SetValue(m.sessionEmail())
		m.input.Focus()
	case StepTitles:
		m.choices = nil
		m.titles = nil
	case StepCover:
		m.choices = []choice{{"photo", "Photo cover"}, {"illustrated", "Illustrated cover"}}
	case StepPhoto:
		m.choices = nil
		m.input.Placeholder = "photos/*.jpg"
		m.input.SetValue("")
		m.input.Focus()
	case StepPreview:
		m.choices = nil
		m.preview = nil
	}
}

func (m *Model) prepareQuestion() {
	qs := m.questions()
	if m.question < len(qs) {
		q := qs[m.question]
		m.input.Placeholder = q.Hint
		m.input.SetValue(m.sessionAnswer(q.ID))
		m.input.Focus()
	}
}

func (m Model) questions() []Question {
	if m.sess == nil || m.sess.Character == nil {
		return nil
	}
	return QuestionsFor(m.sess.Character.Type)
}

func (m Model) characterName() string {
	if m.sess != nil && m.sess.Character != nil {
		return m.sess.Character.Name
	}
	return ""
}

func (m Model) sessionEmail() string {
	if m.sess != nil {
		return m.sess.Email
	}
	return ""
}

func (m Model) sessionAnswer(id string) string {
	if m.sess != nil {
		return m.sess.Answers[id]
	}
	return ""
}

// Update handles messages.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if m.busy {
			if msg.String() == "ctrl+c" {
				m.quitting = true
				return m, tea.Quit
			}
			return m, nil
		}
		switch msg.String() {
		case "ctrl+c", "q":
			if !m.input.Focused() || msg.String() == "ctrl+c" {
				m.quitting = true
				return m, tea.Quit
			}
		case "esc":
			return m.back()
		case "up", "k":
			if !m.input.Focused() && m.selected > 0 {
				m.selected--
			}
		case "down", "j":
			if !m.input.Focused() && m.selected < m.listLen()-1 {
				m.selected++
			}
		case "tab":
			// Character step mixes a text field and a type list.
			if m.step == StepCharacter {
				if m.input.Focused() {
					m.input.Blur()
				} else {
					m.input.Focus()
				}
				return m, nil
			}
		case "enter":
			return m.advance()
		}

	case sessionMsg:
		m.busy = false
		m.sess = msg
		return m.afterCommit()

	case titlesMsg:
		m.busy = false
		m.titles = msg
		if m.titles == nil {
			m.titles = []api.TitleVariant{}
		}
		m.choices = nil
		for _, t := range msg {
			m.choices = append(m.choices, choice{t.Title, t.Title + hintStyle.Render(" · "+t.Subtitle)})
		}
		m.choices = append(m.choices, choice{"", "Write my own"})
		return m, nil

	case previewMsg:
		m.busy = false
		m.preview = msg
		return m, nil

	case stepErrMsg:
		m.busy = false
		m.err = msg.err
		var missing *MissingPrereqError
		if errors.As(msg.err, &missing) {
			m.enter(missing.RouteTo)
			m.err = msg.err
		}
		return m, nil

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	}

	if m.input.Focused() {
		var cmd tea.Cmd
		m.input, cmd = m.input.Update(msg)
		return m, cmd
	}
	return m, nil
}

func (m Model) listLen() int {
	return len(m.choices)
}

// back returns to the previous active step, keeping partial input.
func (m Model) back() (tea.Model, tea.Cmd) {
	if m.step == StepGift {
		return m, nil
	}
	m.enter(Prev(m.sess, m.step))
	return m, nil
}

// advance validates and commits the current step's input.
func (m Model) advance() (tea.Model, tea.Cmd) {
	switch m.step {
	case StepGift:
		isGift := m.choices[m.selected].id == "gift"
		return m.commit(func() (*session.Session, error) { return m.flow.CommitGift(isGift) })
	case StepOccasion:
		id := m.choices[m.selected].id
		return m.commit(func() (*session.Session, error) { return m.flow.CommitOccasion(id) })
	case StepCharacter:
		name := m.input.Value()
		t := session.CharacterType(m.choices[m.selected].id)
		return m.commit(func() (*session.Session, error) { return m.flow.CommitCharacter(name, t) })
	case StepGender:
		g := session.Gender(m.choices[m.selected].id)
		return m.commit(func() (*session.Session, error) { return m.flow.CommitGender(g) })
	case StepQuestions:
		qs := m.questions()
		if m.question >= len(qs) {
			m.enter(Next(m.sess, StepQuestions))
			return m, nil
		}
		q := qs[m.question]
		answer := m.input.Value()
		return m.commit(func() (*session.Session, error) { return m.flow.CommitAnswer(q.ID, answer) })
	case StepGenre:
		id := m.choices[m.selected].id
		return m.commit(func() (*session.Session, error) { return m.flow.CommitGenre(id) })
	case StepEmail:
		email := m.input.Value()
		m.busy = true
		return m, func() tea.Msg {
			sess, err := m.actions.SubmitEmail(context.Background(), email)
			if err != nil {
				return stepErrMsg{err}
			}
			return sessionMsg(sess)
		}
	case StepTitles:
		if m.titles == nil && m.choices == nil {
			m.busy = true
			return m, func() tea.Msg {
				titles, err := m.actions.GenerateTitles(context.Background())
				if err != nil {
					return stepErrMsg{err}
				}
				return titlesMsg(titles)
			}
		}
		return m.chooseTitle()
	case StepCover:
		ct := session.CoverType(m.choices[m.selected].id)
		return m.commit(func() (*session.Session, error) { return m.flow.CommitCover(ct) })
	case StepPhoto:
		pattern := m.input.Value()
		m.busy = true
		return m, func() tea.Msg {
			sess, err := m.actions.UploadPhoto(context.Background(), pattern)
			if err != nil {
				return stepErrMsg{err}
			}
			return sessionMsg(sess)
		}
	case StepPreview:
		if m.preview == nil {
			m.busy = true
			return m, func() tea.Msg {
				res, err := m.actions.LoadPreview(context.Background(), "")
				if err != nil {
					return stepErrMsg{err}
				}
				return previewMsg(res)
			}
		}
		m.quitting = true
		return m, tea.Quit
	}
	return m, nil
}

func (m Model) chooseTitle() (tea.Model, tea.Cmd) {
	if m.selected < len(m.titles) {
		t := m.titles[m.selected]
		m.busy = true
		return m, func() tea.Msg {
			sess, err := m.actions.ChooseTitle(context.Background(), t.Title, t.Subtitle)
			if err != nil {
				return stepErrMsg{err}
			}
			return sessionMsg(sess)
		}
	}
	// "Write my own": swap the list for a text field.
	if !m.input.Focused() {
		m.input.Placeholder = "Your title"
		m.input.SetValue("")
		m.input.Focus()
		m.choices = nil
		return m, nil
	}
	title := m.input.Value()
	m.busy = true
	return m, func() tea.Msg {
		sess, err := m.actions.ChooseTitle(context.Background(), title, "")
		if err != nil {
			return stepErrMsg{err}
		}
		return sessionMsg(sess)
	}
}

func (m Model) commit(fn func() (*session.Session, error)) (tea.Model, tea.Cmd) {
	sess, err := fn()
	if err != nil {
		m.err = err
		var missing *MissingPrereqError
		if errors.As(err, &missing) {
			m.enter(missing.RouteTo)
			m.err = err
		}
		return m, nil
	}
	m.sess = sess
	return m.afterCommit()
}

// afterCommit moves to the next position: the next question inside the
// questionnaire, otherwise the next active step.
func (m Model) afterCommit() (tea.Model, tea.Cmd) {
	if m.step == StepQuestions {
		m.question++
		if m.question < len(m.questions()) {
			m.prepareQuestion()
			return m, nil
		}
	}
	m.enter(Next(m.sess, m.step))
	return m, nil
}

// View renders the current step.
func (m Model) View() string {
	if m.quitting {
		if m.step == StepPreview && m.preview != nil {
			return "Your preview is ready. Run `fiaba generate` to create the full book.\n"
		}
		return "A presto!\n"
	}

	var b strings.Builder
	b.WriteString(titleStyle.Render("✦ Fiaba") + "\n")
	b.WriteString(stepBarStyle.Render(m.stepBar()) + "\n\n")

	if m.busy {
		b.WriteString(fmt.Sprintf("  %s Working...\n", m.spinner.View()))
		return b.String()
	}

	b.WriteString("  " + promptStyle.Render(m.prompt()) + "\n\n")

	switch m.step {
	case StepQuestions:
		qs := m.questions()
		if m.question < len(qs) && qs[m.question].Hint != "" {
			b.WriteString("  " + hintStyle.Render(qs[m.question].Hint) + "\n")
		}
		b.WriteString("  " + m.input.View() + "\n")
	case StepEmail, StepPhoto:
		b.WriteString("  " + m.input.View() + "\n")
	case StepCharacter:
		b.WriteString("  " + m.input.View() + "\n\n")
		m.renderChoices(&b)
	case StepPreview:
		m.renderPreview(&b)
	case StepTitles:
		if m.choices == nil && m.input.Focused() {
			b.WriteString("  " + m.input.View() + "\n")
		} else if m.choices == nil {
			b.WriteString("  " + hintStyle.Render("Press enter to generate title ideas.") + "\n")
		} else {
			m.renderChoices(&b)
		}
	default:
		m.renderChoices(&b)
	}

	if m.err != nil {
		b.WriteString("\n  " + errorStyle.Render(m.err.Error()) + "\n")
	}
	b.WriteString(helpStyle.Render("  enter confirm · esc back · ctrl+c quit"))
	return b.String()
}

func (m Model) renderChoices(b *strings.Builder) {
	for i, c := range m.choices {
		cursor := "  "
		label := c.label
		if i == m.selected {
			cursor = "❯ "
			label = selectedStyle.Render(label)
		}
		fmt.Fprintf(b, "  %s%s\n", cursor, label)
	}
}

func (m Model) renderPreview(b *strings.Builder) {
	if m.preview == nil {
		b.WriteString("  " + hintStyle.Render("Press enter to load the preview.") + "\n")
		return
	}
	p := m.preview
	fmt.Fprintf(b, "  %s\n", promptStyle.Render(p.Preview.Title))
	if p.Preview.Subtitle != "" {
		fmt.Fprintf(b, "  %s\n", hintStyle.Render(p.Preview.Subtitle))
	}
	fmt.Fprintf(b, "  A story starring %s\n\n", p.Protagonist)
	for _, page := range p.Preview.PreviewPages {
		if page.Title != "" {
			fmt.Fprintf(b, "  %s\n", promptStyle.Render(page.Title))
		}
		fmt.Fprintf(b, "  %s\n\n", page.Content)
	}
}

func (m Model) prompt() string {
	switch m.step {
	case StepGift:
		return "Who is this book for?"
	case StepOccasion:
		return "What's the occasion?"
	case StepCharacter:
		return "Who is the hero of the story?"
	case StepGender:
		return "How should we refer to them?"
	case StepQuestions:
		qs := m.questions()
		if m.question < len(qs) {
			return qs[m.question].Prompt
		}
		return ""
	case StepGenre:
		return "Pick a genre"
	case StepEmail:
		return "Where should we send your book?"
	case StepTitles:
		return "Choose a title"
	case StepCover:
		return "Choose a cover style"
	case StepPhoto:
		return "Which photo should go on the cover?"
	case StepPreview:
		return "Your preview"
	}
	return ""
}

// stepBar renders progress as positions in the active sequence.
func (m Model) stepBar() string {
	steps := Steps(m.sess)
	for i, s := range steps {
		if s == m.step {
			return fmt.Sprintf("step %d of %d · %s", i+1, len(steps), m.step)
		}
	}
	return m.step.String()
}
