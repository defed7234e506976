package views

import (
	"github.com/a-h/templ"
	"github.com/dustin/go-humanize"

	"github.com/narvanalabs/scalingo-dashboard/internal/models"
)

// AppsPerPage is the number of application cards on a dashboard page.
const AppsPerPage = 6

// DashboardData is the state of the applications dashboard.
type DashboardData struct {
	Email        string
	Query        string
	Applications []models.Application
	Pagination   models.Pagination
	Error        string
}

// Dashboard renders the searchable grid of applications.
func Dashboard(data DashboardData) templ.Component {
	body := component(func(p *printer) {
		p.raw(`<div class="mb-6 flex items-center justify-between gap-4">`)
		p.raw(`<h1 class="text-2xl font-semibold">Applications</h1>`)
		p.raw(`<form method="get" action="/"><input type="search" name="q" placeholder="Search applications..." value="`)
		p.attr(data.Query)
		p.raw(`" class="w-64 rounded-md border px-3 py-2 text-sm"></form></div>`)

		p.component(Alert("error", data.Error))

		if len(data.Applications) == 0 && data.Error == "" {
			p.raw(`<p class="py-12 text-center text-gray-500">`)
			if data.Query != "" {
				p.raw(`No applications match “`)
				p.text(data.Query)
				p.raw(`”.`)
			} else {
				p.raw(`No applications yet.`)
			}
			p.raw(`</p>`)
			return
		}

		p.raw(`<div class="grid gap-4 sm:grid-cols-2 lg:grid-cols-3">`)
		for _, app := range data.Applications {
			p.component(AppCard(app))
		}
		p.raw(`</div>`)

		base := "/"
		if data.Query != "" {
			base = "/?q=" + urlQueryEscape(data.Query)
		}
		p.component(Pager(base, data.Pagination))
	})
	return Layout("Applications", data.Email, body)
}

// AppCard renders one application in the dashboard grid.
func AppCard(app models.Application) templ.Component {
	return component(func(p *printer) {
		p.raw(`<a href="/applications/`)
		p.attr(app.ID)
		p.raw(`" class="block rounded-lg border bg-white p-4 shadow-sm hover:shadow">`)
		p.raw(`<div class="flex items-center justify-between"><h2 class="font-medium">`)
		p.text(app.Name)
		p.raw(`</h2><span class="%s">`, StatusBadgeClass(app.Status))
		p.text(app.Status.String())
		p.raw(`</span></div><dl class="mt-3 space-y-1 text-sm text-gray-600">`)
		p.raw(`<div class="flex justify-between"><dt>Region</dt><dd>`)
		p.text(app.Region)
		p.raw(`</dd></div>`)
		if app.LastDeployedAt != nil {
			p.raw(`<div class="flex justify-between"><dt>Last deploy</dt><dd>`)
			p.text(humanize.Time(*app.LastDeployedAt))
			p.raw(`</dd></div>`)
		}
		p.raw(`</dl></a>`)
	})
}
