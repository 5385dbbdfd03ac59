package audit

import "context"

// ReportPDFGenerator genera la versión imprimible del informe. La
// implementación vive en infraestructura (Maroto).
type ReportPDFGenerator interface {
	GenerateReportPDF(ctx context.Context, report *Report) ([]byte, error)
}
