package client

import (
	"strconv"

	"github.com/heartmarshall/shoplist-backend/internal/domain"
	"github.com/heartmarshall/shoplist-backend/internal/modal"
)

// Form keys written by the product picker.
const (
	FieldProductID = "productId"
	FieldProduct   = "product"
)

// ProductPicker is the search config for choosing a product.
func ProductPicker(products *Resource[domain.Product]) modal.Config[domain.Product] {
	return modal.Config[domain.Product]{
		Key:   "product",
		Title: "Product",
		Columns: []modal.Column[domain.Product]{
			{Title: "ID", Width: 6, Value: func(p domain.Product) string { return strconv.FormatInt(p.ID, 10) }},
			{Title: "Name", Width: 40, Value: func(p domain.Product) string { return p.Name }},
			{Title: "Category", Width: 20, Value: func(p domain.Product) string {
				if p.Category == nil {
					return ""
				}
				return *p.Category
			}},
		},
		Fetch: products.Fetch,
		Defaults: modal.Params{
			modal.ParamSortField: "name",
			modal.ParamSortOrder: "ASC",
		},
		Merge: func(p domain.Product, _ modal.Values) modal.Values {
			return modal.Values{FieldProductID: p.ID, FieldProduct: p}
		},
		Clear: func(modal.Values) modal.Values {
			return modal.Values{FieldProductID: nil, FieldProduct: nil}
		},
		Messages: modal.Messages{
			Empty:       "No products found",
			SearchEmpty: "No products match your search",
		},
		SearchPlaceholder: "Search products...",
	}
}
