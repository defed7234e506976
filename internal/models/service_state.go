package models

// AppStatus represents the current operational state of an application.
type AppStatus string

const (
	AppStatusNew        AppStatus = "new"
	AppStatusRunning    AppStatus = "running"
	AppStatusStopped    AppStatus = "stopped"
	AppStatusDeploying  AppStatus = "deploying"
	AppStatusScaling    AppStatus = "scaling"
	AppStatusRestarting AppStatus = "restarting"
)

// AppAction represents a lifecycle action that can be performed on an application.
type AppAction string

const (
	// AppActionRestart restarts every container of the application.
	AppActionRestart AppAction = "restart"
	// AppActionStop scales the application down to zero containers.
	AppActionStop AppAction = "stop"
	// AppActionStart scales a stopped application back up.
	AppActionStart AppAction = "start"
)

// ParseAppAction converts a raw action name into an AppAction.
func ParseAppAction(s string) (AppAction, bool) {
	switch a := AppAction(s); a {
	case AppActionRestart, AppActionStop, AppActionStart:
		return a, true
	default:
		return "", false
	}
}

// String returns the string representation of the action.
func (a AppAction) String() string {
	return string(a)
}

// String returns the string representation of the status.
func (s AppStatus) String() string {
	return string(s)
}

// IsTransitioning reports whether the application is between two stable states.
func (s AppStatus) IsTransitioning() bool {
	switch s {
	case AppStatusDeploying, AppStatusScaling, AppStatusRestarting:
		return true
	default:
		return false
	}
}

// AvailableActions returns the actions offered for an application in this status.
// Restart is always offered; stop only when running, start otherwise.
func (s AppStatus) AvailableActions() []AppAction {
	if s == AppStatusRunning {
		return []AppAction{AppActionRestart, AppActionStop}
	}
	return []AppAction{AppActionRestart, AppActionStart}
}

// HasAction returns true if the given action is available for this status.
func (s AppStatus) HasAction(action AppAction) bool {
	for _, a := range s.AvailableActions() {
		if a == action {
			return true
		}
	}
	return false
}
