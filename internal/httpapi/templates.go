package httpapi

import _ "embed"

//go:embed templates/site.tmpl
var siteTemplateHTML string

//go:embed templates/login.tmpl
var loginTemplateHTML string

//go:embed templates/dashboard.tmpl
var dashboardTemplateHTML string
