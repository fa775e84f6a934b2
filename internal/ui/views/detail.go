package views

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/reflow/wordwrap"
	"github.com/muesli/reflow/wrap"
	"go.uber.org/zap"

	"github.com/justyntemme/poemario/internal/browse"
	"github.com/justyntemme/poemario/internal/route"
	"github.com/justyntemme/poemario/internal/share"
	"github.com/justyntemme/poemario/internal/ui/styles"
	"github.com/justyntemme/poemario/pkg/models"
)

// NoticeDuration is how long a transient notice stays visible
const NoticeDuration = 2 * time.Second

// Notice texts
const (
	noticeCopied     = "Copiado"
	noticeFailed     = "Falló"
	noticeLinkCopied = "Enlace copiado"
	noticeShared     = "Compartido"
)

// notice is a transient status line. Each show bumps seq so a stale
// clear from an earlier show does nothing.
type notice struct {
	text string
	seq  int
}

type clearNoticeMsg struct {
	target *notice
	seq    int
}

// copiedMsg is sent when a copy or share action finishes
type copiedMsg struct {
	target *notice
	text   string
}

func (n *notice) show(text string) tea.Cmd {
	n.seq++
	n.text = text
	seq := n.seq
	return tea.Tick(NoticeDuration, func(time.Time) tea.Msg {
		return clearNoticeMsg{target: n, seq: seq}
	})
}

// render styles the notice by outcome
func (n *notice) render() string {
	if n.text == noticeFailed {
		return styles.ErrorStyle.Render(n.text)
	}
	return styles.SuccessStyle.Render(n.text)
}

func (n *notice) clear(seq int) {
	if seq == n.seq {
		n.text = ""
	}
}

// updateNotice handles the notice messages for whichever notice they target
func updateNotice(msg tea.Msg) (tea.Cmd, bool) {
	switch msg := msg.(type) {
	case copiedMsg:
		return msg.target.show(msg.text), true
	case clearNoticeMsg:
		msg.target.clear(msg.seq)
		return nil, true
	}
	return nil, false
}

// copyCmd copies p in the background and reports to target
func copyCmd(svc *Services, p models.Poem, target *notice) tea.Cmd {
	return func() tea.Msg {
		if svc == nil || svc.Share == nil {
			return copiedMsg{target: target, text: noticeFailed}
		}
		if err := svc.Share.Copy(p); err != nil {
			return copiedMsg{target: target, text: noticeFailed}
		}
		return copiedMsg{target: target, text: noticeCopied}
	}
}

// shareCmd shares p, or copies its link when there is no share facility.
// Errors from a real share are only logged.
func shareCmd(svc *Services, p models.Poem, target *notice) tea.Cmd {
	return func() tea.Msg {
		if svc == nil || svc.Share == nil {
			return copiedMsg{target: target, text: noticeFailed}
		}
		outcome, err := svc.Share.Share(p)
		switch {
		case outcome == share.Shared && err != nil:
			if !errors.Is(err, share.ErrUnsupported) {
				svc.logger().Debug("share dismissed", zap.Error(err))
			}
			return nil
		case outcome == share.Shared:
			return copiedMsg{target: target, text: noticeShared}
		case err != nil:
			return copiedMsg{target: target, text: noticeFailed}
		default:
			return copiedMsg{target: target, text: noticeLinkCopied}
		}
	}
}

// detailPane renders one poem and handles the detail actions. The list
// modal and the standalone page both embed it.
type detailPane struct {
	svc   *Services
	state *browse.State
	nav   browse.Navigator

	viewport viewport.Model
	notice   notice

	width  int
	height int
}

func newDetailPane(svc *Services) detailPane {
	vp := viewport.New(60, 10)
	vp.MouseWheelEnabled = true
	return detailPane{svc: svc, viewport: vp, width: 60, height: 10}
}

// open shows list[i] and rewrites the location to point at it
func (d *detailPane) open(list []models.Poem, i int) tea.Cmd {
	if !d.nav.Open(list, i) {
		return nil
	}
	return d.enter()
}

// openID shows the poem with id from list
func (d *detailPane) openID(list []models.Poem, id string) tea.Cmd {
	if !d.nav.OpenID(list, id) {
		return nil
	}
	return d.enter()
}

func (d *detailPane) close() {
	d.nav.Close()
	d.notice.text = ""
}

func (d *detailPane) step(delta int) tea.Cmd {
	if _, ok := d.nav.Step(delta); !ok {
		return nil
	}
	return d.enter()
}

// enter refreshes the body for the current poem
func (d *detailPane) enter() tea.Cmd {
	p, ok := d.nav.Current()
	if !ok {
		return nil
	}
	d.viewport.SetContent(d.wrapBody(p.Content))
	d.viewport.GotoTop()
	return SetLocation(route.Query(p.ID))
}

func (d *detailPane) current() (models.Poem, bool) {
	return d.nav.Current()
}

// handleKey runs a detail action. handled is false for keys the pane
// does not own.
func (d *detailPane) handleKey(msg tea.KeyMsg) (handled bool, cmd tea.Cmd) {
	p, ok := d.nav.Current()
	if !ok {
		return false, nil
	}

	switch msg.String() {
	case "h", "left", "p":
		return true, d.step(-1)
	case "l", "right", "n":
		return true, d.step(1)
	case "f":
		if d.state != nil {
			if _, err := d.state.ToggleFavorite(p.ID); err != nil {
				d.svc.logger().Warn("saving favorite", zap.String("id", p.ID), zap.Error(err))
			}
		}
		return true, nil
	case "c":
		return true, copyCmd(d.svc, p, &d.notice)
	case "s":
		return true, shareCmd(d.svc, p, &d.notice)
	case "m":
		if d.svc != nil && d.svc.ReadState != nil && !d.svc.ReadState.IsRead(p.ID) {
			if err := d.svc.ReadState.MarkRead(p.ID); err != nil {
				d.svc.logger().Warn("marking read", zap.String("id", p.ID), zap.Error(err))
			}
		}
		return true, nil
	case "j", "down", "k", "up", "ctrl+d", "ctrl+u", "pgdown", "pgup", "g", "G", "home", "end":
		switch msg.String() {
		case "g", "home":
			d.viewport.GotoTop()
			return true, nil
		case "G", "end":
			d.viewport.GotoBottom()
			return true, nil
		}
		var cmd tea.Cmd
		d.viewport, cmd = d.viewport.Update(msg)
		return true, cmd
	}
	return false, nil
}

// handleMouse scrolls the body with the wheel
func (d *detailPane) handleMouse(msg tea.MouseMsg) tea.Cmd {
	var cmd tea.Cmd
	d.viewport, cmd = d.viewport.Update(msg)
	return cmd
}

// setSize sizes the pane's content box
func (d *detailPane) setSize(width, height int) {
	d.width = max(20, width)
	d.height = max(3, height)
	d.viewport.Width = d.width
	d.viewport.Height = max(1, d.height-6)
	if p, ok := d.nav.Current(); ok {
		d.viewport.SetContent(d.wrapBody(p.Content))
	}
}

// wrapBody wraps at word boundaries, then hard-wraps words longer than a line
func (d *detailPane) wrapBody(body string) string {
	return wrap.String(wordwrap.String(body, d.width), d.width)
}

func (d *detailPane) isFavorite(id string) bool {
	return d.state != nil && d.state.IsFavorite(id)
}

func (d *detailPane) isRead(id string) bool {
	return d.svc != nil && d.svc.ReadState != nil && d.svc.ReadState.IsRead(id)
}

// render draws title, meta, markers, body and the action bar
func (d *detailPane) render() string {
	p, ok := d.nav.Current()
	if !ok {
		return styles.ErrorStyle.Render(browse.ErrNotFound.Error())
	}

	var b strings.Builder
	title := styles.PoemTitle.Render(styles.TruncateText(p.Title, d.width-12))
	b.WriteString(title + "  " + d.renderMarkers(p) + "\n")
	if meta := d.renderMeta(p); meta != "" {
		b.WriteString(meta + "\n")
	}
	b.WriteString("\n")
	b.WriteString(styles.PoemBody.Render(d.viewport.View()) + "\n\n")
	b.WriteString(d.renderActions(p))
	return b.String()
}

// renderMeta draws the same text as Poem.Meta with the tags styled apart
func (d *detailPane) renderMeta(p models.Poem) string {
	byline := p
	byline.Tags = nil
	parts := make([]string, 0, 2)
	if m := byline.Meta(); m != "" {
		parts = append(parts, styles.PoemMeta.Render(m))
	}
	if len(p.Tags) > 0 {
		parts = append(parts, styles.PoemTags.Render(strings.Join(p.Tags, " · ")))
	}
	if len(parts) == 0 {
		return ""
	}
	sep := styles.PoemMeta.Render(" — ")
	return lipgloss.NewStyle().MaxWidth(d.width).Render(strings.Join(parts, sep))
}

func (d *detailPane) renderMarkers(p models.Poem) string {
	var marks []string
	if d.isFavorite(p.ID) {
		marks = append(marks, styles.FavMark.Render("♥"))
	} else {
		marks = append(marks, styles.MutedText.Render("♡"))
	}
	if d.isRead(p.ID) {
		marks = append(marks, styles.ReadMark.Render("Leído"))
	}
	marks = append(marks, styles.MutedText.Render(positionLabel(d.nav.Index(), d.nav.Len())))
	return strings.Join(marks, " ")
}

func (d *detailPane) renderActions(p models.Poem) string {
	favLabel := " favorito"
	if d.isFavorite(p.ID) {
		favLabel = " quitar"
	}
	help := []string{
		styles.HelpKey.Render("h/l") + styles.Help.Render(" ant/sig"),
		styles.HelpKey.Render("f") + styles.Help.Render(favLabel),
		styles.HelpKey.Render("c") + styles.Help.Render(" copiar"),
		styles.HelpKey.Render("s") + styles.Help.Render(" compartir"),
	}
	if d.isRead(p.ID) {
		help = append(help, styles.MutedText.Render("leído"))
	} else {
		help = append(help, styles.HelpKey.Render("m")+styles.Help.Render(" leído"))
	}
	line := strings.Join(help, "  ")
	if d.notice.text != "" {
		line = d.notice.render() + "  " + line
	}
	return lipgloss.NewStyle().MaxWidth(d.width).Render(line)
}

func positionLabel(i, n int) string {
	if n == 0 {
		return ""
	}
	return fmt.Sprintf("%d/%d", i+1, n)
}
