package services

import (
	"bytes"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"dentlab-backoffice/internal/adapters/persistence/models"
	"dentlab-backoffice/internal/config"

	"github.com/jung-kurt/gofpdf"
	"github.com/skip2/go-qrcode"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

const ellipsis = "…"

// Slip is the printable content of an order slip
type Slip struct {
	LabName       string
	LabContact    string
	OrderNumber   string
	Clinic        string
	Doctor        string
	Patient       string
	WorkType      string
	Spec          string
	Price         string
	Status        string
	CreatedAt     string
	EstDelivery   string
	Technician    string
	TrackingToken string
	Notes         string
}

// SlipService renders order slips as PDF documents
type SlipService struct {
	lab         config.LabInfo
	notesBudget int
}

// NewSlipService creates a slip renderer for the lab profile
func NewSlipService(lab config.LabConfig) *SlipService {
	budget := lab.Slip.NotesBudget
	if budget <= 0 {
		budget = config.DefaultLab().Slip.NotesBudget
	}
	return &SlipService{
		lab:         lab.Lab,
		notesBudget: budget,
	}
}

// TruncateNotes cuts notes to at most budget characters, ending in an ellipsis when cut
func TruncateNotes(notes string, budget int) string {
	notes = strings.TrimSpace(notes)
	if budget <= 0 || utf8.RuneCountInString(notes) <= budget {
		return notes
	}
	runes := []rune(notes)
	return strings.TrimSpace(string(runes[:budget-1])) + ellipsis
}

// BuildSlip collects the printable fields of an order
func (s *SlipService) BuildSlip(order *models.Order) *Slip {
	slip := &Slip{
		LabName:       s.lab.Name,
		LabContact:    strings.Join(nonEmpty(s.lab.Phone, s.lab.Email, s.lab.Address), " · "),
		OrderNumber:   order.OrderNumber,
		Patient:       order.Patient,
		WorkType:      order.ServiceName,
		Spec:          order.Spec,
		Price:         formatMoney(order.Price),
		Status:        string(order.Status),
		CreatedAt:     formatDate(&order.CreatedAt),
		EstDelivery:   formatDate(order.EstDelivery),
		Technician:    order.Technician,
		TrackingToken: order.TrackingToken,
		Notes:         TruncateNotes(order.Notes, s.notesBudget),
	}
	if order.Doctor != nil {
		slip.Doctor = order.Doctor.Name
		slip.Clinic = order.Doctor.Clinic
	}
	return slip
}

// Render produces the PDF bytes of an order slip
func (s *SlipService) Render(order *models.Order) ([]byte, error) {
	slip := s.BuildSlip(order)

	qr, err := qrcode.Encode(slip.TrackingToken, qrcode.Medium, 256)
	if err != nil {
		return nil, fmt.Errorf("encode tracking code: %w", err)
	}

	pdf := gofpdf.New("P", "mm", "A5", "")
	tr := pdf.UnicodeTranslatorFromDescriptor("")
	pdf.SetTitle(tr("Orden "+slip.OrderNumber), false)
	pdf.SetAutoPageBreak(true, 10)
	pdf.AddPage()

	pageW, _ := pdf.GetPageSize()
	left, _, right, _ := pdf.GetMargins()
	width := pageW - left - right

	pdf.SetFont("Helvetica", "B", 14)
	pdf.CellFormat(width, 8, tr(slip.LabName), "", 1, "C", false, 0, "")
	if slip.LabContact != "" {
		pdf.SetFont("Helvetica", "", 8)
		pdf.CellFormat(width, 5, tr(slip.LabContact), "", 1, "C", false, 0, "")
	}
	pdf.Ln(3)

	pdf.SetFont("Helvetica", "B", 12)
	pdf.CellFormat(width, 7, tr("Orden de trabajo "+slip.OrderNumber), "B", 1, "L", false, 0, "")
	pdf.Ln(2)

	rows := [][2]string{
		{"Clínica", slip.Clinic},
		{"Doctor", slip.Doctor},
		{"Paciente", slip.Patient},
		{"Trabajo", slip.WorkType},
		{"Especificación", slip.Spec},
		{"Técnico", slip.Technician},
		{"Precio", slip.Price},
		{"Estado", slip.Status},
		{"Ingreso", slip.CreatedAt},
		{"Entrega estimada", slip.EstDelivery},
	}
	for _, row := range rows {
		if row[1] == "" {
			continue
		}
		pdf.SetFont("Helvetica", "B", 9)
		pdf.CellFormat(35, 6, tr(row[0]+":"), "", 0, "L", false, 0, "")
		pdf.SetFont("Helvetica", "", 9)
		pdf.MultiCell(width-35, 6, tr(row[1]), "", "L", false)
	}

	if slip.Notes != "" {
		pdf.Ln(2)
		pdf.SetFont("Helvetica", "B", 9)
		pdf.CellFormat(width, 6, tr("Observaciones"), "", 1, "L", false, 0, "")
		pdf.SetFont("Helvetica", "", 9)
		pdf.MultiCell(width, 5, tr(slip.Notes), "1", "L", false)
	}

	pdf.Ln(4)
	opts := gofpdf.ImageOptions{ImageType: "PNG"}
	pdf.RegisterImageOptionsReader("tracking", opts, bytes.NewReader(qr))
	qrSize := 35.0
	pdf.ImageOptions("tracking", (pageW-qrSize)/2, pdf.GetY(), qrSize, qrSize, true, opts, 0, "")
	pdf.SetFont("Courier", "", 7)
	pdf.CellFormat(width, 4, slip.TrackingToken, "", 1, "C", false, 0, "")

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("render slip %s: %w", slip.OrderNumber, err)
	}
	return buf.Bytes(), nil
}

// formatMoney renders whole currency units with Spanish digit grouping, e.g. $187.000
func formatMoney(amount int64) string {
	return message.NewPrinter(language.Spanish).Sprintf("$%d", amount)
}

func formatDate(t *time.Time) string {
	if t == nil || t.IsZero() {
		return ""
	}
	return t.Format("2006-01-02")
}

func nonEmpty(values ...string) []string {
	out := values[:0]
	for _, v := range values {
		if strings.TrimSpace(v) != "" {
			out = append(out, v)
		}
	}
	return out
}
