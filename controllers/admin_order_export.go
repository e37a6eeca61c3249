package controllers

import (
	"bytes"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/Amber-bisht/watch-me/models"
	"github.com/Amber-bisht/watch-me/utils"
	"github.com/gin-gonic/gin"
	"github.com/jung-kurt/gofpdf"
	"github.com/tealeg/xlsx"
)

// pdfAmount renders paisa for the PDF core fonts, which lack the rupee sign
func pdfAmount(paisa int64) string {
	return fmt.Sprintf("Rs. %.2f", utils.PaisaToRupees(paisa))
}

func boldStyle() *xlsx.Style {
	style := xlsx.NewStyle()
	font := xlsx.DefaultFont()
	font.Bold = true
	style.Font = *font
	return style
}

// ExportOrders streams the filtered orders as a spreadsheet
func (h *OrderController) ExportOrders(c *gin.Context) {
	orders, err := h.orders.Export(c.Request.Context(), orderFilter(c))
	if err != nil {
		respondServiceError(c, err, "export orders")
		return
	}

	file := xlsx.NewFile()
	sheet, err := file.AddSheet("Orders")
	if err != nil {
		utils.LogError("Failed to create Excel sheet: %v", err)
		utils.InternalServerError(c, "Failed to create Excel sheet", err.Error())
		return
	}

	headers := []string{
		"Order ID", "Date", "Customer", "Email", "Phone", "City", "Pincode", "Status",
		"Items", "Units", "Amount (INR)", "Gateway Order", "Payment ID", "AWB", "Courier", "Shipping Status",
	}
	headerRow := sheet.AddRow()
	style := boldStyle()
	for _, h := range headers {
		cell := headerRow.AddCell()
		cell.SetString(h)
		cell.SetStyle(style)
	}

	for _, order := range orders {
		units := 0
		for _, item := range order.Items {
			units += item.Qty
		}

		row := sheet.AddRow()
		row.AddCell().SetInt(int(order.ID))
		row.AddCell().SetString(order.CreatedAt.Format("2006-01-02 15:04"))
		row.AddCell().SetString(order.Customer.Name)
		row.AddCell().SetString(order.Customer.Email)
		row.AddCell().SetString(order.Customer.Phone)
		row.AddCell().SetString(order.Customer.Address.City)
		row.AddCell().SetString(order.Customer.Address.ZipCode)
		row.AddCell().SetString(order.Status)
		row.AddCell().SetInt(len(order.Items))
		row.AddCell().SetInt(units)
		row.AddCell().SetFloat(utils.PaisaToRupees(order.Amount))
		row.AddCell().SetString(order.RazorpayOrderID)
		row.AddCell().SetString(order.RazorpayPaymentID)
		row.AddCell().SetString(order.AWBCode)
		row.AddCell().SetString(order.CourierName)
		row.AddCell().SetString(order.ShippingStatus)
	}

	utils.LogInfo("Exporting %d orders", len(orders))
	filename := fmt.Sprintf("orders_%s.xlsx", time.Now().Format("20060102_150405"))
	c.Header("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	c.Header("Content-Disposition", "attachment; filename="+filename)
	if err := file.Write(c.Writer); err != nil {
		utils.LogError("Failed to write Excel file: %v", err)
	}
}

// PackingSlip renders a printable packing slip for an order
func (h *OrderController) PackingSlip(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		return
	}

	order, err := h.orders.Get(c.Request.Context(), id)
	if err != nil {
		respondServiceError(c, err, "fetch order")
		return
	}

	var buf bytes.Buffer
	if err := writePackingSlip(&buf, order); err != nil {
		utils.LogError("Failed to render packing slip for order %d: %v", order.ID, err)
		utils.InternalServerError(c, "Failed to generate packing slip", err.Error())
		return
	}

	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=packing_slip_%d.pdf", order.ID))
	c.Data(http.StatusOK, "application/pdf", buf.Bytes())
}

func writePackingSlip(buf *bytes.Buffer, order *models.Order) error {
	pdf := gofpdf.New("P", "mm", "A4", "")
	tr := pdf.UnicodeTranslatorFromDescriptor("")
	pdf.AddPage()

	pdf.SetFont("Arial", "B", 18)
	pdf.Cell(100, 10, "PACKING SLIP")
	pdf.Ln(12)

	pdf.SetFont("Arial", "", 11)
	pdf.Cell(60, 7, "Order #"+strconv.Itoa(int(order.ID)))
	pdf.Cell(80, 7, "Date: "+order.CreatedAt.Format("2006-01-02 15:04"))
	pdf.Ln(7)
	pdf.Cell(60, 7, "Status: "+strings.ToUpper(order.Status))
	if order.AWBCode != "" {
		pdf.Cell(80, 7, tr("AWB: "+order.AWBCode+" ("+order.CourierName+")"))
	}
	pdf.Ln(12)

	addr := order.Customer.Address
	pdf.SetFont("Arial", "B", 12)
	pdf.Cell(95, 7, "Ship To:")
	if order.PickupAddress.Pincode != "" {
		pdf.Cell(95, 7, "Ship From:")
	}
	pdf.Ln(7)

	pdf.SetFont("Arial", "", 11)
	shipTo := []string{
		order.Customer.Name,
		addr.Street,
		addr.City + ", " + addr.State + " " + addr.ZipCode,
		addr.Country,
		"Phone: " + order.Customer.Phone,
	}
	pickup := order.PickupAddress
	shipFrom := []string{
		pickup.Name,
		pickup.Street,
		pickup.City + ", " + pickup.State + " " + pickup.Pincode,
		pickup.Country,
		"Phone: " + pickup.Phone,
	}
	for i := range shipTo {
		pdf.Cell(95, 6, tr(shipTo[i]))
		if pickup.Pincode != "" {
			pdf.Cell(95, 6, tr(shipFrom[i]))
		}
		pdf.Ln(6)
	}
	pdf.Ln(8)

	colWidths := []float64{20, 100, 20, 40}
	headers := []string{"#", "Item", "Qty", "Price"}
	pdf.SetFont("Arial", "B", 11)
	pdf.SetFillColor(220, 220, 220)
	for i, h := range headers {
		pdf.CellFormat(colWidths[i], 8, h, "1", 0, "C", true, 0, "")
	}
	pdf.Ln(-1)

	pdf.SetFont("Arial", "", 10)
	units := 0
	for i, item := range order.Items {
		units += item.Qty
		pdf.CellFormat(colWidths[0], 8, strconv.Itoa(i+1), "1", 0, "C", false, 0, "")
		pdf.CellFormat(colWidths[1], 8, tr(item.Title), "1", 0, "L", false, 0, "")
		pdf.CellFormat(colWidths[2], 8, strconv.Itoa(item.Qty), "1", 0, "C", false, 0, "")
		pdf.CellFormat(colWidths[3], 8, pdfAmount(item.LineTotal()), "1", 0, "R", false, 0, "")
		pdf.Ln(-1)
	}

	pdf.SetFont("Arial", "B", 11)
	pdf.CellFormat(colWidths[0]+colWidths[1], 8, "Total", "1", 0, "R", false, 0, "")
	pdf.CellFormat(colWidths[2], 8, strconv.Itoa(units), "1", 0, "C", false, 0, "")
	pdf.CellFormat(colWidths[3], 8, pdfAmount(order.Amount), "1", 0, "R", false, 0, "")
	pdf.Ln(-1)

	return pdf.Output(buf)
}
