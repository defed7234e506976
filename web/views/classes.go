package views

import (
	twmerge "github.com/Oudwins/tailwind-merge-go"

	"github.com/narvanalabs/scalingo-dashboard/internal/models"
)

const badgeBase = "inline-flex items-center rounded-full px-2.5 py-0.5 text-xs font-medium bg-gray-100 text-gray-800"

func twBadge(extra string) string {
	return twmerge.Merge(badgeBase, extra)
}

// StatusBadgeClass returns the badge classes for an application status.
func StatusBadgeClass(status models.AppStatus) string {
	switch {
	case status == models.AppStatusRunning:
		return twBadge("bg-green-100 text-green-800")
	case status == models.AppStatusStopped:
		return twBadge("bg-red-100 text-red-800")
	case status.IsTransitioning():
		return twBadge("bg-yellow-100 text-yellow-800")
	default:
		return badgeBase
	}
}

// DeploymentBadgeClass returns the badge classes for a deployment status.
func DeploymentBadgeClass(status models.DeploymentStatus) string {
	switch {
	case status == models.DeploymentStatusSuccess:
		return twBadge("bg-green-100 text-green-800")
	case status.IsFailure():
		return twBadge("bg-red-100 text-red-800")
	default:
		return badgeBase
	}
}

// LevelClass returns the text color of a log line of the given level.
func LevelClass(level models.LogLevel) string {
	switch level {
	case models.LogLevelError:
		return "text-red-400"
	case models.LogLevelWarn:
		return "text-yellow-400"
	case models.LogLevelInfo:
		return "text-blue-400"
	case "debug":
		return "text-gray-400"
	default:
		return "text-gray-300"
	}
}

// ButtonClass merges extra classes over the default button style.
func ButtonClass(extra ...string) string {
	return twmerge.Merge(append([]string{
		"inline-flex items-center rounded-md px-3 py-1.5 text-sm font-medium bg-gray-900 text-white hover:bg-gray-700",
	}, extra...)...)
}
