package controllers

import (
	"log"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"github.com/tealeg/xlsx"
)

func formatPrice(v float64) string {
	return decimal.NewFromFloat(v).String()
}

var exportHeaders = []string{
	"ID", "Name", "Brand", "Slug", "Category", "Gender", "Price",
	"Volumes", "InStock", "Featured", "ImageUrl", "CreatedAt", "UpdatedAt",
}

// ExportProducts downloads the catalog as products.xlsx, one row per product
// with its volumes flattened as "label:price" pairs.
func (a *App) ExportProducts() gin.HandlerFunc {
	return func(c *gin.Context) {
		products, err := a.Store.ListProducts(c.Request.Context())
		if err != nil {
			storeError(c, "GET /api/products/export", err, "", "Failed to fetch products")
			return
		}

		file := xlsx.NewFile()
		sheet, err := file.AddSheet("Products")
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create Excel sheet"})
			return
		}

		headerRow := sheet.AddRow()
		for _, h := range exportHeaders {
			headerRow.AddCell().SetValue(h)
		}

		for _, p := range products {
			row := sheet.AddRow()
			row.AddCell().SetValue(p.Id)
			row.AddCell().SetValue(p.Name)
			row.AddCell().SetValue(p.Brand)
			row.AddCell().SetValue(p.Slug)
			row.AddCell().SetValue(string(p.Category))
			row.AddCell().SetValue(string(p.Gender))
			row.AddCell().SetFloat(p.Price)

			volumes := make([]string, 0, len(p.Volumes))
			for _, v := range p.Volumes {
				volumes = append(volumes, v.Volume+":"+formatPrice(v.Price))
			}
			row.AddCell().SetValue(strings.Join(volumes, ","))

			row.AddCell().SetBool(p.InStock)
			row.AddCell().SetBool(p.Featured)
			row.AddCell().SetValue(p.ImageUrl)
			row.AddCell().SetValue(p.CreatedAt.Format("2006-01-02 15:04:05"))
			row.AddCell().SetValue(p.UpdatedAt.Format("2006-01-02 15:04:05"))
		}

		c.Header("Content-Disposition", "attachment; filename=products.xlsx")
		c.Header("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
		c.Header("Content-Transfer-Encoding", "binary")
		c.Header("Expires", "0")

		if err := file.Write(c.Writer); err != nil {
			log.Printf("GET /api/products/export: %v", err)
		}
	}
}
