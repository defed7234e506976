package views

import (
	"fmt"
	"net/url"

	"github.com/a-h/templ"
	"github.com/dustin/go-humanize"

	"github.com/narvanalabs/scalingo-dashboard/internal/models"
)

// Detail page tabs.
const (
	TabLogs        = "logs"
	TabDeployments = "deployments"
	TabDomains     = "domains"
	TabActions     = "actions"
)

var tabs = []struct{ id, label string }{
	{TabLogs, "Logs"},
	{TabDeployments, "Deployments"},
	{TabDomains, "Domains"},
	{TabActions, "Activity"},
}

// DetailData is the state of an application page. Only the data of the
// selected tab is loaded.
type DetailData struct {
	Email       string
	App         models.Application
	Tab         string
	Logs        []models.LogEntry
	Lines       int
	Deployments *models.DeploymentPage
	Domains     []models.Domain
	Primary     *models.Domain
	Actions     []*models.ActionRecord
	SuccessMsg  string
	ErrorMsg    string
}

func urlQueryEscape(s string) string {
	return url.QueryEscape(s)
}

// Detail renders the application page.
func Detail(data DetailData) templ.Component {
	app := data.App
	base := "/applications/" + url.PathEscape(app.ID)

	body := component(func(p *printer) {
		p.raw(`<a href="/" class="text-sm text-gray-500 hover:underline">← Applications</a>`)
		p.raw(`<div class="mt-2 mb-6 flex items-center justify-between"><div class="flex items-center gap-3"><h1 class="text-2xl font-semibold">`)
		p.text(app.Name)
		p.raw(`</h1><span class="%s">`, StatusBadgeClass(app.Status))
		p.text(app.Status.String())
		p.raw(`</span></div><div class="flex gap-2">`)
		for _, action := range app.Status.AvailableActions() {
			p.raw(`<form method="post" action="`)
			p.attr(base + "/actions")
			p.raw(`"><input type="hidden" name="action" value="%s"><button class="%s">%s</button></form>`,
				action, actionButtonClass(action), actionLabel(action))
		}
		p.raw(`</div></div>`)

		p.component(Alert("success", data.SuccessMsg))
		p.component(Alert("error", data.ErrorMsg))

		p.raw(`<nav class="mb-4 flex gap-4 border-b text-sm">`)
		for _, t := range tabs {
			class := "pb-2 text-gray-500 hover:text-gray-900"
			if t.id == data.Tab {
				class = "pb-2 border-b-2 border-gray-900 font-medium text-gray-900"
			}
			p.raw(`<a class="%s" href="`, class)
			p.attr(base + "?tab=" + t.id)
			p.raw(`">%s</a>`, t.label)
		}
		p.raw(`</nav>`)

		switch data.Tab {
		case TabDeployments:
			p.component(DeploymentList(base, data.Deployments))
		case TabDomains:
			p.component(DomainList(data.Domains, data.Primary))
		case TabActions:
			p.component(ActionList(data.Actions))
		default:
			p.component(LogView(app.ID, data.Logs, data.Lines))
		}
	})
	return Layout(app.Name, data.Email, body)
}

func actionLabel(a models.AppAction) string {
	switch a {
	case models.AppActionRestart:
		return "Restart"
	case models.AppActionStop:
		return "Stop"
	default:
		return "Start"
	}
}

func actionButtonClass(a models.AppAction) string {
	if a == models.AppActionStop {
		return ButtonClass("bg-red-600 hover:bg-red-700")
	}
	return ButtonClass()
}

// LogView renders log entries in a terminal-like panel. A small script
// appends entries received from the live tail websocket.
func LogView(appID string, entries []models.LogEntry, lines int) templ.Component {
	return component(func(p *printer) {
		p.raw(`<div class="mb-2 flex items-center justify-between text-sm text-gray-600"><span>Last %d lines</span>`, lines)
		p.raw(`<label class="flex items-center gap-2"><input type="checkbox" id="live-tail"> Live tail</label></div>`)
		p.raw(`<div id="log-view" class="h-[32rem] overflow-y-auto rounded-md bg-gray-900 p-4 font-mono text-xs leading-5">`)
		if len(entries) == 0 {
			p.raw(`<p class="text-gray-500">No logs available.</p>`)
		}
		for _, e := range entries {
			p.component(LogLine(e))
		}
		p.raw(`</div>`)
		p.raw(`<script>(function(){var box=document.getElementById("log-view"),sw=document.getElementById("live-tail"),ws=null;`)
		p.raw(`var cls={error:"%s",warn:"%s",info:"%s"};`, LevelClass(models.LogLevelError), LevelClass(models.LogLevelWarn), LevelClass(models.LogLevelInfo))
		p.raw(`sw.addEventListener("change",function(){if(!sw.checked){if(ws){ws.close();ws=null}return}`)
		p.raw(`ws=new WebSocket((location.protocol==="https:"?"wss://":"ws://")+location.host+"/api/scalingo/applications/"+%q+"/logs/ws");`, appID)
		p.raw(`ws.onmessage=function(m){var e=JSON.parse(m.data),d=document.createElement("div");d.className=cls[e.level]||"%s";`, LevelClass(""))
		p.raw(`d.textContent=e.timestamp+" "+e.source+" "+e.message;box.appendChild(d);box.scrollTop=box.scrollHeight}});})();</script>`)
	})
}

// LogLine renders one log entry.
func LogLine(e models.LogEntry) templ.Component {
	return component(func(p *printer) {
		p.raw(`<div class="%s"><span class="text-gray-500">`, LevelClass(e.Level))
		p.text(e.Timestamp)
		p.raw(`</span> <span class="text-gray-400">`)
		p.text(e.Source)
		p.raw(`</span> `)
		p.text(e.Message)
		p.raw(`</div>`)
	})
}

// DeploymentList renders a page of deployments with its pager.
func DeploymentList(base string, page *models.DeploymentPage) templ.Component {
	return component(func(p *printer) {
		if page == nil || len(page.Deployments) == 0 {
			p.raw(`<p class="py-8 text-center text-gray-500">No deployments found.</p>`)
			return
		}
		p.raw(`<table class="w-full text-left text-sm"><thead class="text-gray-500"><tr>`)
		p.raw(`<th class="py-2">Status</th><th>Git ref</th><th>Pusher</th><th>Image</th><th>Created</th><th></th></tr></thead><tbody>`)
		for _, d := range page.Deployments {
			p.raw(`<tr class="border-t"><td class="py-2"><span class="%s">`, DeploymentBadgeClass(d.Status))
			p.text(string(d.Status))
			p.raw(`</span></td><td class="font-mono">`)
			p.text(shortRef(d.GitRef))
			p.raw(`</td><td>`)
			p.text(d.Pusher.Username)
			p.raw(`</td><td>`)
			p.text(humanize.Bytes(uint64(max(d.ImageSize, 0))))
			p.raw(`</td><td>`)
			p.text(humanize.Time(d.CreatedAt))
			p.raw(`</td><td><a class="text-blue-600 hover:underline" href="`)
			p.attr(fmt.Sprintf("/api/scalingo/applications/%s/deployments/%s/output", url.PathEscape(d.AppID), url.PathEscape(d.ID)))
			p.raw(`">Output</a></td></tr>`)
		}
		p.raw(`</tbody></table>`)
		p.component(Pager(base+"?tab="+TabDeployments, page.Meta.Pagination))
	})
}

func shortRef(ref string) string {
	if len(ref) > 8 {
		return ref[:8]
	}
	return ref
}

// DomainList renders the domains of an application, primary first.
func DomainList(domains []models.Domain, primary *models.Domain) templ.Component {
	return component(func(p *printer) {
		if len(domains) == 0 {
			p.raw(`<p class="py-8 text-center text-gray-500">No custom domains.</p>`)
			return
		}
		p.raw(`<ul class="divide-y rounded-md border bg-white">`)
		for _, d := range domains {
			p.raw(`<li class="flex items-center justify-between px-4 py-3"><a class="text-blue-600 hover:underline" href="`)
			p.attr(d.URL())
			p.raw(`">`)
			p.text(d.Name)
			p.raw(`</a><span class="flex gap-2">`)
			if primary != nil && primary.ID == d.ID {
				p.raw(`<span class="%s">primary</span>`, twBadge("bg-blue-100 text-blue-800"))
			}
			if d.SSL {
				p.raw(`<span class="%s">SSL</span>`, twBadge("bg-green-100 text-green-800"))
			}
			p.raw(`</span></li>`)
		}
		p.raw(`</ul>`)
	})
}

// ActionList renders the audit trail of an application.
func ActionList(records []*models.ActionRecord) templ.Component {
	return component(func(p *printer) {
		if len(records) == 0 {
			p.raw(`<p class="py-8 text-center text-gray-500">No actions recorded.</p>`)
			return
		}
		p.raw(`<ul class="divide-y rounded-md border bg-white text-sm">`)
		for _, r := range records {
			p.raw(`<li class="flex items-center justify-between px-4 py-3"><span>`)
			p.text(actionLabel(r.Action))
			p.raw(` by `)
			p.text(r.Actor)
			if !r.Success {
				p.raw(` <span class="%s">failed</span>`, twBadge("bg-red-100 text-red-800"))
			}
			p.raw(`</span><span class="text-gray-500">`)
			p.text(humanize.Time(r.CreatedAt))
			p.raw(`</span></li>`)
		}
		p.raw(`</ul>`)
	})
}
