package presenter

import "sync"

type Kind string

const (
	KindSuccess Kind = "success"
	KindInfo    Kind = "info"
	KindError   Kind = "error"
)

type Action string

const (
	ActionAcknowledge          Action = "acknowledge"
	ActionNavigateLogin        Action = "navigateLogin"
	ActionNavigateOrderHistory Action = "navigateOrderHistory"
)

type Route string

const (
	RouteOrderHistory Route = "order-history"
	RouteLogin        Route = "login"
)

// Route returns the screen an action leads to, or "" for actions that only dismiss.
func (a Action) Route() Route {
	switch a {
	case ActionNavigateLogin:
		return RouteLogin
	case ActionNavigateOrderHistory:
		return RouteOrderHistory
	}
	return ""
}

func (a Action) Label() string {
	switch a {
	case ActionNavigateLogin:
		return "Log in"
	case ActionNavigateOrderHistory:
		return "View orders"
	}
	return "OK"
}

type Button struct {
	Label  string
	Action Action
}

// Surface is the notification UI: it shows one notification with its buttons.
type Surface interface {
	Show(title, message, icon string, buttons []Button)
}

type Navigator interface {
	Navigate(route Route)
}

// Notification is what was last handed to the surface.
type Notification struct {
	Kind    Kind
	Title   string
	Message string
	Icon    string
	Buttons []Button
}

// OutcomePresenter turns outcomes into notifications. It knows nothing about
// where the outcome came from.
type OutcomePresenter struct {
	surface Surface

	mu   sync.Mutex
	last *Notification
}

func NewOutcomePresenter(surface Surface) *OutcomePresenter {
	return &OutcomePresenter{surface: surface}
}

func (p *OutcomePresenter) Present(kind Kind, title, message string, actions ...Action) {
	if len(actions) == 0 {
		actions = []Action{ActionAcknowledge}
	}

	buttons := make([]Button, len(actions))
	for i, action := range actions {
		buttons[i] = Button{Label: action.Label(), Action: action}
	}

	n := Notification{
		Kind:    kind,
		Title:   title,
		Message: message,
		Icon:    iconFor(kind),
		Buttons: buttons,
	}

	p.mu.Lock()
	p.last = &n
	p.mu.Unlock()

	p.surface.Show(n.Title, n.Message, n.Icon, n.Buttons)
}

// PresentAlreadyInCart reports a rejected Add. It is informational, not an error.
func (p *OutcomePresenter) PresentAlreadyInCart(displayName string) {
	p.Present(KindInfo, "Already in cart", displayName+" is already in your cart.", ActionAcknowledge)
}

// PresentLoginRequired is used by collaborators that need an authenticated user.
func (p *OutcomePresenter) PresentLoginRequired(message string) {
	p.Present(KindInfo, "Login required", message, ActionNavigateLogin, ActionAcknowledge)
}

func (p *OutcomePresenter) Last() (Notification, bool) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.last == nil {
		return Notification{}, false
	}
	return *p.last, true
}

func iconFor(kind Kind) string {
	switch kind {
	case KindSuccess:
		return "check-circle"
	case KindError:
		return "alert-circle"
	}
	return "info"
}
