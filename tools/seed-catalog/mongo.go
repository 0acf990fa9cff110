package main

import (
	"context"
	"fmt"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/A-d-1-t-y-a/smart-vechicle-maintenance/services/common/models"
)

// legacyProduct is a document in the old Mongo products collection.
type legacyProduct struct {
	ID       primitive.ObjectID `bson:"_id"`
	Title    string             `bson:"title"`
	Price    float64            `bson:"price"`
	Category primitive.ObjectID `bson:"category"`
	Images   []string           `bson:"images"`
	Quantity int                `bson:"quantity"`
}

type legacyCategory struct {
	ID   primitive.ObjectID `bson:"_id"`
	Name string             `bson:"name"`
}

// loadLegacy reads both collections in full.
func loadLegacy(ctx context.Context, uri, dbName string) ([]legacyProduct, []legacyCategory, error) {
	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, nil, fmt.Errorf("mongo connect: %w", err)
	}
	defer func() { _ = client.Disconnect(ctx) }()
	db := client.Database(dbName)

	var categories []legacyCategory
	if err := findAll(ctx, db.Collection("categories"), &categories); err != nil {
		return nil, nil, err
	}
	var products []legacyProduct
	if err := findAll(ctx, db.Collection("products"), &products); err != nil {
		return nil, nil, err
	}
	return products, categories, nil
}

func findAll(ctx context.Context, coll *mongo.Collection, out interface{}) error {
	cur, err := coll.Find(ctx, bson.M{}, options.Find().SetBatchSize(500))
	if err != nil {
		return fmt.Errorf("mongo find %s: %w", coll.Name(), err)
	}
	defer cur.Close(ctx)
	if err := cur.All(ctx, out); err != nil {
		return fmt.Errorf("mongo decode %s: %w", coll.Name(), err)
	}
	return nil
}

// fromLegacy maps Mongo documents onto the catalog. Object IDs become the
// new keys so a rerun overwrites instead of duplicating. Products whose
// category is unknown land in "general".
func fromLegacy(products []legacyProduct, categories []legacyCategory, location string, now time.Time) Catalog {
	ts := models.Timestamp(now)
	names := make(map[primitive.ObjectID]string, len(categories))
	cat := Catalog{
		Categories: make([]models.Category, 0, len(categories)),
		Products:   make([]models.Product, 0, len(products)),
	}
	for _, c := range categories {
		name := strings.ToLower(strings.TrimSpace(c.Name))
		if name == "" {
			continue
		}
		names[c.ID] = name
		cat.Categories = append(cat.Categories, models.Category{
			CategoryID: "cat-" + c.ID.Hex(),
			Name:       name,
			CreatedAt:  ts,
		})
	}
	for _, p := range products {
		if p.ID.IsZero() || p.Title == "" {
			continue
		}
		category, ok := names[p.Category]
		if !ok {
			category = "general"
		}
		var image string
		if len(p.Images) > 0 {
			image = p.Images[0]
		}
		stock := p.Quantity
		if stock < 0 {
			stock = 0
		}
		cat.Products = append(cat.Products, models.Product{
			ProductID:        "prod-" + p.ID.Hex(),
			Name:             p.Title,
			Price:            p.Price,
			Category:         category,
			ImageURL:         image,
			Stock:            stock,
			ReorderThreshold: DefaultReorderThreshold,
			CreatedAt:        ts,
			UpdatedAt:        ts,
		})
	}
	cat.Inventory = inventoryFor(cat.Products, location, ts)
	return cat
}
