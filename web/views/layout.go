package views

import "github.com/a-h/templ"

// Layout wraps body in the dashboard page chrome. email is the signed-in user
// and may be empty on public pages.
func Layout(title, email string, body templ.Component) templ.Component {
	return component(func(p *printer) {
		p.raw(`<!DOCTYPE html><html lang="en"><head><meta charset="UTF-8">`)
		p.raw(`<meta name="viewport" content="width=device-width, initial-scale=1.0">`)
		p.raw(`<title>`)
		p.text(title)
		p.raw(` · Scalingo Dashboard</title>`)
		p.raw(`<script src="https://cdn.tailwindcss.com"></script></head>`)
		p.raw(`<body class="min-h-screen bg-gray-50 text-gray-900">`)
		p.raw(`<header class="border-b bg-white"><div class="mx-auto flex max-w-6xl items-center justify-between px-4 py-3">`)
		p.raw(`<a href="/" class="text-lg font-semibold">Scalingo Dashboard</a>`)
		if email != "" {
			p.raw(`<div class="flex items-center gap-3 text-sm text-gray-600"><span>`)
			p.text(email)
			p.raw(`</span><form method="post" action="/logout"><button class="%s">Sign out</button></form></div>`,
				ButtonClass("bg-white text-gray-700 border hover:bg-gray-100"))
		}
		p.raw(`</div></header><main class="mx-auto max-w-6xl px-4 py-6">`)
		p.component(body)
		p.raw(`</main></body></html>`)
	})
}

// Alert renders a flash message. kind is "error" or "success".
func Alert(kind, message string) templ.Component {
	return component(func(p *printer) {
		if message == "" {
			return
		}
		class := "mb-4 rounded-md border px-4 py-3 text-sm border-green-200 bg-green-50 text-green-800"
		if kind == "error" {
			class = "mb-4 rounded-md border px-4 py-3 text-sm border-red-200 bg-red-50 text-red-800"
		}
		p.raw(`<div class="%s" role="alert">`, class)
		p.text(message)
		p.raw(`</div>`)
	})
}
