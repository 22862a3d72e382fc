package services

import (
	"bytes"
	"context"
	"fmt"
	"html/template"
	"log"
	"time"

	"github.com/chromedp/cdproto/page"
	"github.com/chromedp/chromedp"
	"github.com/cloudinary/cloudinary-go/v2"
	"github.com/cloudinary/cloudinary-go/v2/api/uploader"
	config "github.com/dheerajgaurgithub/swachhcare/configs"
	"github.com/dheerajgaurgithub/swachhcare/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GenerateInvoiceForBooking renders a completion invoice to PDF and uploads
// it. Runs in the background after a booking completes; failures are logged
// and never affect the booking itself.
func GenerateInvoiceForBooking(db *gorm.DB, bookingID uuid.UUID) {
	var booking models.Booking
	if err := db.Preload("Customer").Preload("Service").Preload("AddOns").
		First(&booking, "id = ?", bookingID).Error; err != nil {
		log.Printf("🔥 Invoice generation: booking %s not found: %v", bookingID, err)
		return
	}
	if booking.Status != models.BookingStatusCompleted {
		return
	}
	if booking.InvoiceURL != nil {
		return
	}

	htmlData, err := renderInvoiceHTML(&booking)
	if err != nil {
		log.Printf("🔥 Failed to render invoice HTML for %s: %v", booking.Reference, err)
		return
	}

	pdfBytes, err := generatePDFFromHTML(htmlData)
	if err != nil {
		log.Printf("🔥 Failed to generate invoice PDF for %s: %v", booking.Reference, err)
		return
	}

	uploadURL, err := uploadInvoice(pdfBytes, booking.Reference)
	if err != nil {
		log.Printf("🔥 Failed to upload invoice for %s: %v", booking.Reference, err)
		return
	}

	if err := db.Model(&models.Booking{}).Where("id = ?", booking.ID).
		Update("invoice_url", uploadURL).Error; err != nil {
		log.Printf("🔥 Failed to save invoice URL for %s: %v", booking.Reference, err)
		return
	}
	log.Printf("✅ Generated invoice for booking %s", booking.Reference)
}

type invoiceLine struct {
	Name   string
	Amount string
}

func rupees(paise int64) string {
	return fmt.Sprintf("₹%d.%02d", paise/100, paise%100)
}

func renderInvoiceHTML(booking *models.Booking) (string, error) {
	tmpl, err := template.ParseFiles("templates/invoice.html")
	if err != nil {
		return "", err
	}

	lines := []invoiceLine{{Name: booking.Service.Name, Amount: rupees(booking.BasePrice.Paise)}}
	for _, addOn := range booking.AddOns {
		lines = append(lines, invoiceLine{Name: addOn.Name, Amount: rupees(addOn.Price.Paise)})
	}

	data := struct {
		Reference    string
		CustomerName string
		ServiceDate  string
		Lines        []invoiceLine
		Discount     string
		Total        string
		IssuedOn     string
	}{
		Reference:    booking.Reference,
		CustomerName: booking.Customer.FullName,
		ServiceDate:  booking.ScheduledAt.Format("January 2, 2006"),
		Lines:        lines,
		Discount:     rupees(booking.Discount.Paise),
		Total:        rupees(booking.TotalAmount.Paise),
		IssuedOn:     time.Now().Format("January 2, 2006"),
	}

	var rendered bytes.Buffer
	if err := tmpl.Execute(&rendered, data); err != nil {
		return "", err
	}
	return rendered.String(), nil
}

func generatePDFFromHTML(htmlContent string) ([]byte, error) {
	ctx, cancel := chromedp.NewContext(context.Background())
	defer cancel()

	var pdfBuffer []byte
	err := chromedp.Run(ctx,
		chromedp.Navigate("about:blank"),
		chromedp.ActionFunc(func(ctx context.Context) error {
			frameTree, err := page.GetFrameTree().Do(ctx)
			if err != nil {
				return err
			}
			return page.SetDocumentContent(frameTree.Frame.ID, htmlContent).Do(ctx)
		}),
		chromedp.ActionFunc(func(ctx context.Context) error {
			pdf, _, err := page.PrintToPDF().WithPrintBackground(true).Do(ctx)
			if err != nil {
				return err
			}
			pdfBuffer = pdf
			return nil
		}),
	)
	if err != nil {
		return nil, err
	}
	return pdfBuffer, nil
}

func uploadInvoice(fileBytes []byte, reference string) (string, error) {
	cld, err := cloudinary.NewFromURL(config.Config("CLOUDINARY_URL"))
	if err != nil {
		return "", err
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	uploadParams := uploader.UploadParams{
		PublicID:     fmt.Sprintf("invoices/%s", reference),
		Folder:       "swachhcare_invoices",
		ResourceType: "raw",
	}

	uploadResult, err := cld.Upload.Upload(ctx, bytes.NewReader(fileBytes), uploadParams)
	if err != nil {
		return "", err
	}
	return uploadResult.SecureURL, nil
}
