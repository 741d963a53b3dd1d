// Package seed fills an empty store with a small camera-store catalog.
package seed

import (
	"context"
	"fmt"
	"strings"

	"github.com/rs/zerolog/log"

	"github.com/wichananm65/camera-store-backend/internal/domain/entity"
	"github.com/wichananm65/camera-store-backend/internal/usecase"
)

// ProductCreator stores seeded products.
type ProductCreator interface {
	Create(ctx context.Context, p entity.Product) (entity.Product, error)
}

// Result reports what Run inserted.
type Result struct {
	Categories int
	Products   int
	Skipped    bool
}

type node struct {
	name     string
	prefix   string
	children []node
}

var tree = []node{
	{name: "Cameras", prefix: "Camera", children: []node{
		{name: "Mirrorless", prefix: "Mirrorless camera", children: []node{
			{name: "Full frame"},
			{name: "APS-C"},
		}},
		{name: "DSLR", prefix: "DSLR camera"},
		{name: "Film cameras", prefix: "Film camera"},
	}},
	{name: "Lenses", prefix: "Lens", children: []node{
		{name: "Prime"},
		{name: "Zoom"},
	}},
	{name: "Video cameras", prefix: "Camcorder"},
	{name: "Flashes", prefix: "Flash"},
	{name: "Tripods", prefix: "Tripod"},
	{name: "Accessories", children: []node{
		{name: "Memory cards", prefix: "Memory card"},
		{name: "Bags", prefix: "Bag"},
		{name: "Filters", prefix: "Filter"},
	}},
}

type product struct {
	name      string
	brand     string
	price     float64
	rating    float64
	condition string
	featured  bool
	path      string
	secondary string
}

var products = []product{
	{name: "Sony A7 IV", brand: "Sony", price: 2499, rating: 4.8, featured: true, path: "Cameras/Mirrorless/Full frame"},
	{name: "Nikon Z6 II", brand: "Nikon", price: 1999, rating: 4.6, path: "Cameras/Mirrorless/Full frame"},
	{name: "Fujifilm X-T5", brand: "Fujifilm", price: 1699, rating: 4.7, featured: true, path: "Cameras/Mirrorless/APS-C"},
	{name: "Canon EOS 90D", brand: "Canon", price: 1199, rating: 4.3, path: "Cameras/DSLR"},
	{name: "Canon EOS 5D Mark III", brand: "Canon", price: 900, rating: 4.5, condition: entity.ConditionUsed, path: "Cameras/DSLR"},
	{name: "Zenit E", brand: "KMZ", price: 60, rating: 2.5, path: "Cameras/Film cameras"},
	{name: "Sony FE 50mm f/1.8", brand: "Sony", price: 249, rating: 4.2, path: "Lenses/Prime"},
	{name: "Nikkor Z 24-70mm f/4", brand: "Nikon", price: 999, rating: 4.4, path: "Lenses/Zoom"},
	{name: "Sigma 18-35mm f/1.8", brand: "Sigma", price: 799, path: "Lenses/Zoom", secondary: "Video cameras"},
	{name: "Panasonic HC-V800", brand: "Panasonic", price: 549, rating: 3.9, path: "Video cameras"},
	{name: "Godox V1", brand: "Godox", price: 259, rating: 4.6, path: "Flashes"},
	{name: "Manfrotto Befree", brand: "Manfrotto", price: 199, rating: 4, path: "Tripods", secondary: "Accessories"},
	{name: "SanDisk Extreme 128GB", brand: "SanDisk", price: 29, rating: 4.9, path: "Accessories/Memory cards"},
	{name: "Lowepro Adventura", brand: "Lowepro", price: 45, rating: 2.8, path: "Accessories/Bags"},
	{name: "Hoya UV 67mm", brand: "Hoya", price: 35, path: "Accessories/Filters"},
}

// Run inserts the sample tree and products unless categories already
// exist.
func Run(ctx context.Context, categories usecase.CategoryUsecase, creator ProductCreator) (Result, error) {
	existing, err := categories.ListAll(ctx)
	if err != nil {
		return Result{}, err
	}
	if len(existing) > 0 {
		log.Info().Int("categories", len(existing)).Msg("seed skipped: catalog is not empty")
		return Result{Skipped: true}, nil
	}

	var res Result
	ids := make(map[string]int64)
	var create func(parent *int64, path string, nodes []node) error
	create = func(parent *int64, path string, nodes []node) error {
		for _, n := range nodes {
			var prefix *string
			if n.prefix != "" {
				p := n.prefix
				prefix = &p
			}
			c, err := categories.Create(ctx, usecase.CreateCategoryInput{Name: n.name, ParentID: parent, ProductNamePrefix: prefix})
			if err != nil {
				return fmt.Errorf("seed category %q: %w", n.name, err)
			}
			res.Categories++
			key := strings.TrimPrefix(path+"/"+n.name, "/")
			ids[key] = c.ID
			if err := create(&c.ID, key, n.children); err != nil {
				return err
			}
		}
		return nil
	}
	if err := create(nil, "", tree); err != nil {
		return res, err
	}

	for _, p := range products {
		links, err := linksFor(ids, p.path, p.secondary)
		if err != nil {
			return res, err
		}
		item := entity.Product{
			Name:      p.name,
			Brand:     p.brand,
			Price:     p.price,
			Condition: p.condition,
			Featured:  p.featured,
			Links:     links,
		}
		if p.rating > 0 {
			r := p.rating
			item.Rating = &r
		}
		if _, err := creator.Create(ctx, item); err != nil {
			return res, fmt.Errorf("seed product %q: %w", p.name, err)
		}
		res.Products++
	}

	log.Info().Int("categories", res.Categories).Int("products", res.Products).Msg("catalog seeded")
	return res, nil
}

// linksFor turns a slash separated category path into product links.
func linksFor(ids map[string]int64, path, secondary string) (entity.CategoryLinks, error) {
	var links entity.CategoryLinks
	parts := strings.Split(path, "/")
	fields := []**int64{&links.CategoryID, &links.SubcategoryID, &links.SubsubcategoryID}
	for i := range parts {
		id, ok := ids[strings.Join(parts[:i+1], "/")]
		if !ok || i >= len(fields) {
			return links, fmt.Errorf("seed: unknown category path %q", path)
		}
		*fields[i] = &id
	}
	if secondary != "" {
		id, ok := ids[secondary]
		if !ok {
			return links, fmt.Errorf("seed: unknown secondary category %q", secondary)
		}
		links.CategoryID2 = &id
	}
	return links, nil
}
