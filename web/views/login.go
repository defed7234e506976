package views

import "github.com/a-h/templ"

// LoginData is the state of the sign-in page.
type LoginData struct {
	Email string
	Error string
}

// Login renders the sign-in page.
func Login(data LoginData) templ.Component {
	body := component(func(p *printer) {
		p.raw(`<div class="mx-auto mt-16 max-w-sm rounded-lg border bg-white p-8 shadow-sm">`)
		p.raw(`<h1 class="mb-6 text-2xl font-semibold">Sign in</h1>`)
		p.component(Alert("error", data.Error))
		p.raw(`<form method="post" action="/login" class="space-y-4">`)
		p.raw(`<label class="block text-sm text-gray-600">Email<input type="email" name="email" required value="`)
		p.attr(data.Email)
		p.raw(`" class="mt-1 w-full rounded-md border px-3 py-2"></label>`)
		p.raw(`<label class="block text-sm text-gray-600">Password<input type="password" name="password" required class="mt-1 w-full rounded-md border px-3 py-2"></label>`)
		p.raw(`<button type="submit" class="%s">Sign in</button>`, ButtonClass("w-full justify-center py-2"))
		p.raw(`</form></div>`)
	})
	return Layout("Sign in", "", body)
}
