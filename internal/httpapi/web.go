package httpapi

import (
	"bytes"
	"html/template"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/MarkoPoloResearchLab/advocacia_site/internal/catalog"
	"github.com/MarkoPoloResearchLab/advocacia_site/internal/profile"
)

const (
	siteTemplateName      = "site"
	loginTemplateName     = "login"
	dashboardTemplateName = "dashboard"

	pageHTMLContentType = "text/html; charset=utf-8"

	defaultSiteName     = "Santos"
	defaultSiteSubtitle = "Advogados Especializados"

	loginErrorMessage = "Senha incorreta"

	logEventRenderSitePage      = "render_site_page"
	logEventRenderLoginPage     = "render_login_page"
	logEventRenderDashboardPage = "render_dashboard_page"

	errorValueRenderFailed = "render_failed"
)

// specialty is one entry of the public site's practice grid.
type specialty struct {
	Title       string
	Description string
}

// defaultSpecialties is shown while the operator has not selected any
// practice areas yet.
var defaultSpecialties = []specialty{
	{Title: "Advogado Civil", Description: "Atuamos na defesa de direitos em contratos, propriedade, indenizações, causas familiares e disputas judiciais."},
	{Title: "Advogado de Família", Description: "Somos especialistas em mediação e resolução de conflitos familiares, atuando em divórcios, guarda de filhos, pensão alimentícia e herança."},
	{Title: "Advogado das Sucessões", Description: "Atuamos em planejamento e resolução de questões hereditárias, inventários, testamentos e divisão de bens familiares."},
	{Title: "Advogado Trabalhista", Description: "Especialista na defesa dos direitos trabalhistas, auxiliando em causas de rescisão, salários, horas extras, assédio e benefícios."},
	{Title: "Advogado Criminalista", Description: "Atuamos na defesa em processos criminais, atuando em investigações e acompanhamento em Delegacia, julgamentos e recursos."},
	{Title: "Advogado INSS", Description: "Especialista em direitos previdenciários, atuando em aposentadorias, benefícios por incapacidade, revisões de benefício e pensões."},
}

var defaultSpecializationNames = []string{
	"Direito Civil",
	"Direito de Família",
	"Divórcio",
	"Separação",
	"Dissolução de União Estável",
	"Herança",
	"Imobiliário",
	"Contratos",
	"Trabalhista",
	"Previdenciário",
}

type sitePageData struct {
	SiteName           string
	Subtitle           string
	RegistrationNumber string
	Email              string
	Phone              string
	Address            string
	Specialties        []specialty
	Specializations    []string
}

// SitePageHandlers renders the public marketing page.
type SitePageHandlers struct {
	logger         *zap.Logger
	template       *template.Template
	profileService *profile.Service
}

// NewSitePageHandlers constructs handlers that render the public site.
func NewSitePageHandlers(logger *zap.Logger, profileService *profile.Service) *SitePageHandlers {
	if logger == nil {
		logger = zap.NewNop()
	}
	compiledTemplate := template.Must(template.New(siteTemplateName).Parse(siteTemplateHTML))
	return &SitePageHandlers{
		logger:         logger,
		template:       compiledTemplate,
		profileService: profileService,
	}
}

// RenderSitePage assembles the page data from the profile and catalog and
// writes the response.
func (handlers *SitePageHandlers) RenderSitePage(context *gin.Context) {
	currentProfile := handlers.profileService.Current()
	selectedAreas := handlers.profileService.SelectedAreas()

	data := sitePageData{
		SiteName:           defaultSiteName,
		Subtitle:           defaultSiteSubtitle,
		RegistrationNumber: currentProfile.RegistrationNumber,
		Email:              currentProfile.Email,
		Phone:              currentProfile.Phone,
		Address:            currentProfile.Address,
		Specialties:        defaultSpecialties,
		Specializations:    defaultSpecializationNames,
	}
	if currentProfile.Name != "" {
		data.SiteName = currentProfile.Name
	}
	if currentProfile.RegistrationNumber != "" {
		data.Subtitle = currentProfile.RegistrationNumber
	}
	if len(selectedAreas) > 0 {
		specialties := make([]specialty, 0, len(selectedAreas))
		specializationNames := make([]string, 0, len(selectedAreas))
		for _, area := range selectedAreas {
			specialties = append(specialties, specialty{Title: area.Name, Description: area.Description})
			specializationNames = append(specializationNames, area.Name)
		}
		data.Specialties = specialties
		data.Specializations = specializationNames
	}

	renderPage(context, handlers.logger, handlers.template, data, logEventRenderSitePage)
}

type loginPageData struct {
	ErrorMessage string
}

// LoginPageHandlers renders the admin login view.
type LoginPageHandlers struct {
	logger   *zap.Logger
	template *template.Template
}

// NewLoginPageHandlers constructs handlers that render the login template.
func NewLoginPageHandlers(logger *zap.Logger) *LoginPageHandlers {
	if logger == nil {
		logger = zap.NewNop()
	}
	compiledTemplate := template.Must(template.New(loginTemplateName).Parse(loginTemplateHTML))
	return &LoginPageHandlers{
		logger:   logger,
		template: compiledTemplate,
	}
}

// RenderLoginPage writes the login view, surfacing the failed-login message
// when the request carries the failure marker.
func (handlers *LoginPageHandlers) RenderLoginPage(context *gin.Context) {
	data := loginPageData{}
	if LoginFailed(context) {
		data.ErrorMessage = loginErrorMessage
	}
	renderPage(context, handlers.logger, handlers.template, data, logEventRenderLoginPage)
}

type dashboardPageData struct {
	Categories []string
	TotalAreas int
}

// DashboardPageHandlers renders the guarded admin dashboard shell; the page
// drives itself through the admin JSON API.
type DashboardPageHandlers struct {
	logger   *zap.Logger
	template *template.Template
}

// NewDashboardPageHandlers constructs handlers that render the dashboard template.
func NewDashboardPageHandlers(logger *zap.Logger) *DashboardPageHandlers {
	if logger == nil {
		logger = zap.NewNop()
	}
	compiledTemplate := template.Must(template.New(dashboardTemplateName).Parse(dashboardTemplateHTML))
	return &DashboardPageHandlers{
		logger:   logger,
		template: compiledTemplate,
	}
}

// RenderDashboard writes the dashboard response.
func (handlers *DashboardPageHandlers) RenderDashboard(context *gin.Context) {
	data := dashboardPageData{
		Categories: catalog.Categories(),
		TotalAreas: catalog.Count(),
	}
	renderPage(context, handlers.logger, handlers.template, data, logEventRenderDashboardPage)
}

func renderPage(context *gin.Context, logger *zap.Logger, pageTemplate *template.Template, data any, logEvent string) {
	var buffer bytes.Buffer
	if executeErr := pageTemplate.Execute(&buffer, data); executeErr != nil {
		logger.Error(logEvent, zap.Error(executeErr))
		context.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{jsonKeyError: errorValueRenderFailed})
		return
	}
	context.Data(http.StatusOK, pageHTMLContentType, buffer.Bytes())
}
