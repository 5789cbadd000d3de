package services

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"unicode"

	"dentlab-backoffice/internal/adapters/persistence/models"
	"dentlab-backoffice/internal/adapters/persistence/repositories"
	"dentlab-backoffice/internal/config"
	"dentlab-backoffice/internal/core/domain"
	"dentlab-backoffice/internal/pkg/pagination"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// AssistantReply is the canned answer picked for a question
type AssistantReply struct {
	Rule   string `json:"rule"`
	Answer string `json:"answer"`
}

// askContext is what a rule may read while answering
type askContext struct {
	doctor   *models.Doctor
	question string
}

type assistantRule struct {
	name     string
	keywords []string
	answer   func(s *AssistantService, ctx context.Context, ask *askContext) (string, error)
}

// rules are checked in order; the first rule with a matching keyword answers.
// Keywords are lower case without accents.
var assistantRules = []assistantRule{
	{"price", []string{"precio", "costo", "cuanto", "vale", "tarifa"}, (*AssistantService).answerPrice},
	{"orders", []string{"orden", "pedido", "estado"}, (*AssistantService).answerOrders},
	{"turnaround", []string{"tiempo", "entrega", "cuando", "demora"}, (*AssistantService).answerTurnaround},
	{"discount", []string{"descuento", "promocion", "categoria", "beneficio"}, (*AssistantService).answerDiscount},
	{"services", []string{"servicio", "trabajo", "que hacen", "catalogo"}, (*AssistantService).answerServices},
	{"contact", []string{"contacto", "telefono", "horario", "correo", "whatsapp"}, (*AssistantService).answerContact},
}

// serviceKeywords maps words in a question to catalog entries; more specific words first
var serviceKeywords = []struct{ keyword, service string }{
	{"zirconio", "Corona Zirconio"},
	{"implante", "Implante + Corona"},
	{"corona", "Corona Metal-Cerámica"},
	{"puente", "Puente 3 Unidades"},
	{"carilla", "Carillas de Porcelana"},
	{"incrustacion", "Incrustación"},
	{"blanqueamiento", "Blanqueamiento"},
	{"ortodoncia", "Ortodoncia (mensual)"},
	{"parcial", "Prótesis Parcial"},
	{"total", "Prótesis Total"},
}

// AssistantService answers doctors' questions from a fixed rule table
type AssistantService struct {
	pricing     *PricingService
	doctorRepo  repositories.DoctorRepository
	orderRepo   repositories.OrderRepository
	serviceRepo repositories.ServiceRepository
	logRepo     repositories.AssistantLogRepository
	lab         config.LabInfo
	enabled     bool
}

// NewAssistantService creates the rule-based assistant
func NewAssistantService(
	pricing *PricingService,
	doctorRepo repositories.DoctorRepository,
	orderRepo repositories.OrderRepository,
	serviceRepo repositories.ServiceRepository,
	logRepo repositories.AssistantLogRepository,
	lab config.LabConfig,
) *AssistantService {
	return &AssistantService{
		pricing:     pricing,
		doctorRepo:  doctorRepo,
		orderRepo:   orderRepo,
		serviceRepo: serviceRepo,
		logRepo:     logRepo,
		lab:         lab.Lab,
		enabled:     lab.Assistant.Enabled,
	}
}

// Reply answers a referring doctor's question and appends the exchange to the log
func (s *AssistantService) Reply(ctx context.Context, p *domain.Principal, question string) (*AssistantReply, error) {
	reply, err := s.reply(ctx, p, question)
	if err != nil {
		return nil, err
	}

	exchange := &models.AssistantExchange{
		DoctorID: *p.DoctorID,
		UserID:   p.UserID,
		Question: strings.TrimSpace(question),
		Rule:     reply.Rule,
		Answer:   reply.Answer,
	}
	if err := s.logRepo.Create(ctx, exchange); err != nil {
		log.Printf("⚠️ Failed to log assistant exchange for doctor #%d: %v", exchange.DoctorID, err)
	}
	return reply, nil
}

// History lists the calling doctor's past questions, newest first
func (s *AssistantService) History(ctx context.Context, p *domain.Principal, params *pagination.Params) ([]*models.AssistantExchange, int64, error) {
	if p == nil || !p.Is(domain.RoleDoctor) || p.DoctorID == nil {
		return nil, 0, fmt.Errorf("%w: the assistant answers referring doctors only", domain.ErrForbidden)
	}
	return s.logRepo.ListByDoctor(ctx, *p.DoctorID, params.Offset, params.Limit)
}

func (s *AssistantService) reply(ctx context.Context, p *domain.Principal, question string) (*AssistantReply, error) {
	if !s.enabled {
		return nil, fmt.Errorf("%w: the assistant is disabled for this lab", domain.ErrForbidden)
	}
	if !p.Is(domain.RoleDoctor) || p.DoctorID == nil {
		return nil, fmt.Errorf("%w: the assistant answers referring doctors only", domain.ErrForbidden)
	}

	doctor, err := s.doctorRepo.GetByID(ctx, *p.DoctorID)
	if err != nil {
		return nil, storeErr(err, fmt.Errorf("%w: #%d", domain.ErrUnknownDoctor, *p.DoctorID))
	}

	ask := &askContext{doctor: doctor, question: normalizeQuestion(question)}
	for _, rule := range assistantRules {
		if !containsAny(ask.question, rule.keywords) {
			continue
		}
		answer, err := rule.answer(s, ctx, ask)
		if err != nil {
			return nil, err
		}
		return &AssistantReply{Rule: rule.name, Answer: answer}, nil
	}

	return &AssistantReply{
		Rule: "greeting",
		Answer: fmt.Sprintf("👋 Hola %s. Soy el asistente virtual de %s. Puedo ayudarle con precios, "+
			"estado de sus órdenes, tiempos de entrega, descuentos, servicios e información de contacto.",
			doctor.Name, s.lab.Name),
	}, nil
}

func (s *AssistantService) answerPrice(ctx context.Context, ask *askContext) (string, error) {
	for _, kw := range serviceKeywords {
		if !strings.Contains(ask.question, kw.keyword) {
			continue
		}
		quote, err := s.pricing.Price(ctx, kw.service, ask.doctor.ID)
		if errors.Is(err, domain.ErrUnknownService) {
			break
		}
		if err != nil {
			return "", err
		}
		return fmt.Sprintf("💰 El precio de %s para usted es %s.", quote.ServiceName, formatMoney(quote.Price)), nil
	}

	quotes, err := s.pricing.PriceList(ctx, ask.doctor.ID)
	if err != nil {
		return "", err
	}
	var b strings.Builder
	fmt.Fprintf(&b, "🦷 Precios para %s (categoría %s, %s%% de descuento):\n", ask.doctor.Name, ask.doctor.Category, ask.doctor.DiscountRate)
	for _, q := range quotes {
		fmt.Fprintf(&b, "• %s: %s\n", q.ServiceName, formatMoney(q.Price))
	}
	return strings.TrimRight(b.String(), "\n"), nil
}

func (s *AssistantService) answerOrders(ctx context.Context, ask *askContext) (string, error) {
	doctorID := ask.doctor.ID
	orders, _, err := s.orderRepo.List(ctx, repositories.OrderFilter{DoctorID: &doctorID}, 0, 5)
	if err != nil {
		return "", err
	}
	if len(orders) == 0 {
		return "📋 No tiene órdenes registradas actualmente.", nil
	}
	var b strings.Builder
	b.WriteString("📋 Sus últimas órdenes:\n")
	for _, o := range orders {
		fmt.Fprintf(&b, "• %s: %s - %s - %s\n", o.OrderNumber, o.Patient, o.ServiceName, o.Status)
	}
	return strings.TrimRight(b.String(), "\n"), nil
}

func (s *AssistantService) answerTurnaround(ctx context.Context, ask *askContext) (string, error) {
	services, err := s.serviceRepo.List(ctx, true)
	if err != nil {
		return "", err
	}
	var b strings.Builder
	b.WriteString("⏰ Tiempos de entrega estándar:\n")
	for _, svc := range services {
		fmt.Fprintf(&b, "• %s: %d días hábiles\n", svc.Name, svc.TurnaroundDays)
	}
	b.WriteString("Los tiempos pueden variar según la complejidad del caso.")
	return b.String(), nil
}

func (s *AssistantService) answerDiscount(ctx context.Context, ask *askContext) (string, error) {
	if ask.doctor.DiscountRate.IsZero() {
		return fmt.Sprintf("🎉 Su categoría actual es %s. Consulte con el laboratorio cómo acceder a las categorías %s y %s.",
			ask.doctor.Category, domain.CategoryVIP, domain.CategoryPremium), nil
	}
	return fmt.Sprintf("🎉 Como doctor %s usted tiene %s%% de descuento en todos nuestros servicios.",
		ask.doctor.Category, ask.doctor.DiscountRate), nil
}

func (s *AssistantService) answerServices(ctx context.Context, ask *askContext) (string, error) {
	services, err := s.serviceRepo.List(ctx, true)
	if err != nil {
		return "", err
	}
	names := make([]string, len(services))
	for i, svc := range services {
		names[i] = svc.Name
	}
	return "🦷 Ofrecemos: " + strings.Join(names, ", ") + ".", nil
}

func (s *AssistantService) answerContact(ctx context.Context, ask *askContext) (string, error) {
	lines := []string{"📞 " + s.lab.Name}
	for _, v := range []string{s.lab.Phone, s.lab.Email, s.lab.Address} {
		if v != "" {
			lines = append(lines, "• "+v)
		}
	}
	return strings.Join(lines, "\n"), nil
}

// normalizeQuestion lower-cases and strips accents so "Órdenes" matches "orden"
func normalizeQuestion(q string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	out, _, err := transform.String(t, q)
	if err != nil {
		out = q
	}
	return strings.ToLower(out)
}

func containsAny(s string, keywords []string) bool {
	for _, kw := range keywords {
		if strings.Contains(s, kw) {
			return true
		}
	}
	return false
}
