package cellstyle

// HyperlinkKind says what a hyperlink points at.
type HyperlinkKind int

const (
	LinkURL HyperlinkKind = iota
	LinkEmail
	LinkExternal
	LinkCurrentWorkbook
)

// Hyperlink is the link attached to a style. Hyperlinks compare by content.
type Hyperlink struct {
	Kind   HyperlinkKind
	Target string
	Tip    string
}

// NewHyperlink creates a URL hyperlink.
func NewHyperlink(target, tip string) *Hyperlink {
	return &Hyperlink{Kind: LinkURL, Target: target, Tip: tip}
}

// Equal compares kind, target and tip.
func (h *Hyperlink) Equal(o *Hyperlink) bool {
	if h == nil || o == nil {
		return h == o
	}
	return *h == *o
}

// String returns the tip if any, else the target.
func (h *Hyperlink) String() string {
	if h.Tip != "" {
		return h.Tip
	}
	return h.Target
}

func (h *Hyperlink) hash() uint32 {
	if h == nil {
		return 0
	}
	return hashString(h.Target) ^ hashString(h.Tip)<<1 ^ uint32(h.Kind)
}

// InputMsg is the prompt shown when a cell is selected.
type InputMsg struct {
	Title string
	Msg   string
}

// Equal compares title and message.
func (m *InputMsg) Equal(o *InputMsg) bool {
	if m == nil || o == nil {
		return m == o
	}
	return *m == *o
}

func (m *InputMsg) hash() uint32 {
	if m == nil {
		return 0
	}
	return hashString(m.Title) ^ hashString(m.Msg)<<3
}
