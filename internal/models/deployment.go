package models

import "time"

// DeploymentStatus represents the final or current state of a deployment.
type DeploymentStatus string

const (
	DeploymentStatusBuilding   DeploymentStatus = "building"
	DeploymentStatusPushing    DeploymentStatus = "pushing"
	DeploymentStatusStarting   DeploymentStatus = "starting"
	DeploymentStatusSuccess    DeploymentStatus = "success"
	DeploymentStatusBuildError DeploymentStatus = "build-error"
	DeploymentStatusCrashed    DeploymentStatus = "crashed"
	DeploymentStatusTimeout    DeploymentStatus = "timeout"
	DeploymentStatusAborted    DeploymentStatus = "aborted"
)

// IsFailure reports whether the deployment ended without the new code running.
func (s DeploymentStatus) IsFailure() bool {
	switch s {
	case DeploymentStatusBuildError, DeploymentStatusCrashed, DeploymentStatusTimeout, DeploymentStatusAborted:
		return true
	default:
		return false
	}
}

// Pusher is the user who triggered a deployment.
type Pusher struct {
	ID       string `json:"id"`
	Email    string `json:"email"`
	Username string `json:"username"`
}

// Deployment represents one deployment of an application.
type Deployment struct {
	ID             string           `json:"id"`
	AppID          string           `json:"app_id"`
	CreatedAt      time.Time        `json:"created_at"`
	GitRef         string           `json:"git_ref"`
	Status         DeploymentStatus `json:"status"`
	ImageSize      int64            `json:"image_size"`
	StackBaseImage string           `json:"stack_base_image"`
	Pusher         Pusher           `json:"pusher"`
}

// DeploymentMeta wraps pagination the way the deployments API nests it.
type DeploymentMeta struct {
	Pagination Pagination `json:"pagination"`
}

// DeploymentPage is one page of an application's deployments.
type DeploymentPage struct {
	Deployments []Deployment   `json:"deployments"`
	Meta        DeploymentMeta `json:"meta"`
}

// DeploymentOutput is the raw build output of a deployment.
type DeploymentOutput struct {
	Output string `json:"output"`
}
