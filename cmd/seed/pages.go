package main

import (
	"context"
	"fmt"

	models "sitecraft/internal/domain/models/page"
	pageSvc "sitecraft/internal/domain/services/page"
)

// widgetSpec describes one widget to add; children are added under it
type widgetSpec struct {
	Type     models.WidgetType
	Content  map[string]any
	Children []widgetSpec
}

type samplePage struct {
	Name    string
	SEO     models.SEO
	Widgets []widgetSpec
}

// seedPage creates the page and builds its tree through the page service, so
// seeded widgets get library defaults like interactively added ones.
func seedPage(ctx context.Context, svc pageSvc.PageService, sample samplePage) (*models.PageDocument, error) {
	seo := sample.SEO
	doc, err := svc.CreatePage(ctx, &pageSvc.CreatePageRequest{Name: sample.Name, SEO: &seo})
	if err != nil {
		return nil, err
	}
	if err := addWidgets(ctx, svc, doc.ID, "", sample.Widgets); err != nil {
		return nil, fmt.Errorf("page %s: %w", sample.Name, err)
	}
	return svc.GetPage(ctx, doc.ID)
}

func addWidgets(ctx context.Context, svc pageSvc.PageService, pageID, parentID string, specs []widgetSpec) error {
	for _, spec := range specs {
		w, err := svc.AddWidget(ctx, pageID, &pageSvc.AddWidgetRequest{
			Type:     spec.Type,
			Content:  spec.Content,
			ParentID: parentID,
		})
		if err != nil {
			return fmt.Errorf("add %s: %w", spec.Type, err)
		}
		if err := addWidgets(ctx, svc, pageID, w.ID, spec.Children); err != nil {
			return err
		}
	}
	return nil
}

func samplePages() []samplePage {
	return []samplePage{
		{
			Name: "Padaria Central",
			SEO: models.SEO{
				Title:       "Padaria Central | Pão fresco todos os dias",
				Description: "Padaria artesanal no centro da cidade. Encomendas pelo WhatsApp.",
				Keywords:    []string{"padaria", "pão artesanal", "encomendas"},
			},
			Widgets: []widgetSpec{
				{Type: models.WidgetSection, Children: []widgetSpec{
					{Type: models.WidgetHeading, Content: map[string]any{"text": "Padaria Central", "tag": "h1"}},
					{Type: models.WidgetText, Content: map[string]any{"text": "Pão fresco todos os dias desde 1987."}},
					{Type: models.WidgetButton, Content: map[string]any{"text": "Fale conosco", "link": "tel:+551133334444"}},
				}},
				{Type: models.WidgetSection, Children: []widgetSpec{
					{Type: models.WidgetHeading, Content: map[string]any{"text": "Telefone: (11) 3333-4444"}},
					{Type: models.WidgetText, Content: map[string]any{"text": "Rua das Flores, 123 - Centro"}},
					{Type: models.WidgetWhatsApp, Content: map[string]any{"phone": "+55 11 98888-7777", "message": "Olá! Gostaria de fazer uma encomenda."}},
				}},
			},
		},
		{
			Name: "Summer Sale",
			SEO: models.SEO{
				Title:       "Summer Sale: 30% off everything",
				Description: "Limited-time offer on the whole collection.",
			},
			Widgets: []widgetSpec{
				{Type: models.WidgetSection, Children: []widgetSpec{
					{Type: models.WidgetHeading, Content: map[string]any{"text": "30% off this weekend"}},
					{Type: models.WidgetText, Content: map[string]any{"text": "Offer valid until 31/08/2025."}},
					{Type: models.WidgetImage, Content: map[string]any{"src": "https://images.example.com/summer.jpg", "alt": "Summer collection"}},
					{Type: models.WidgetButton, Content: map[string]any{"text": "Shop now", "link": "https://shop.example.com"}},
				}},
				{Type: models.WidgetDivider},
				{Type: models.WidgetForm},
			},
		},
	}
}
