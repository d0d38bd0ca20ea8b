// Package printing renders Shipper's Letters of Instruction.
//
// The markup renderer (TemplateEngine) populates an html/template skeleton
// driven by the form layout. The vector composer lays the same layout out as
// positioned rectangles, lines and text and writes a single-page PDF. The
// raster pipeline captures the populated markup in headless Chrome and slices
// the bitmap into Letter pages. SummaryWorkbook exports the aggregated product
// rows as a spreadsheet.
//
// Example usage:
//
//	store, err := NewTemplateStore(ctx, &TemplateStoreConfig{})
//	if err != nil {
//	    return err
//	}
//	sheet := printing.NewSheet(doc)
//	result, err := NewVectorRenderer(NewVectorComposer(form, geometry)).Render(ctx, sheet)
package printing
