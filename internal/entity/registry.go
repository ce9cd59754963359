package entity

import (
	"context"
	"fmt"
	"strconv"

	"github.com/soratech/storefront/internal/backend"
)

// NewRegistry wires every admin-managed entity to the backend client. The
// descriptors drive the generic table, form, CSV and soft-delete engines.
func NewRegistry(c *backend.Client) Registry {
	return Registry{
		"products":        productsDescriptor(c),
		"categories":      categoriesDescriptor(c),
		"suppliers":       suppliersDescriptor(c),
		"users":           usersDescriptor(c),
		"orders":          ordersDescriptor(c),
		"reviews":         reviewsDescriptor(c),
		"addresses":       addressesDescriptor(c),
		"characteristics": characteristicsDescriptor(c),
		"delivery-types":  deliveryTypesDescriptor(c),
		"payment-types":   paymentTypesDescriptor(c),
	}
}

func rawAPI(c *backend.Client, path string) API {
	return API{
		List: func(ctx context.Context) ([]backend.Record, error) {
			return c.ListRaw(ctx, path, nil)
		},
		Create: func(ctx context.Context, rec backend.Record) (backend.Record, error) {
			return c.CreateRaw(ctx, path, rec)
		},
		Update: func(ctx context.Context, id int, rec backend.Record) error {
			return c.UpdateRaw(ctx, path, id, rec)
		},
		Delete: func(ctx context.Context, id int) error {
			return c.DeleteRaw(ctx, path, id)
		},
	}
}

func withIncludeDeleted(c *backend.Client, path string, api API) API {
	api.ListAll = func(ctx context.Context) ([]backend.Record, error) {
		return c.ListRaw(ctx, path+"?includeDeleted=true", nil)
	}
	return api
}

func productsDescriptor(c *backend.Client) Descriptor {
	return Descriptor{
		Key:   "products",
		Title: "Товары",
		API:   withIncludeDeleted(c, "/api/Products", rawAPI(c, "/api/Products")),
		Columns: []Column{
			{Key: "id", Label: "ID"},
			{Key: "nameProduct", Label: "Название"},
			{Key: "article", Label: "Артикул"},
			{Key: "price", Label: "Цена"},
			{Key: "stockQuantity", Label: "Остаток"},
			{Key: "categoryId", Label: "Категория"},
			{Key: "supplierId", Label: "Поставщик"},
		},
		SearchFields: []string{"nameProduct", "article", "description"},
		FormFields: []FormField{
			{Name: "nameProduct", Label: "Название", Kind: FieldText, Required: true},
			{Name: "article", Label: "Артикул", Kind: FieldText, Required: true},
			{Name: "description", Label: "Описание", Kind: FieldText},
			{Name: "price", Label: "Цена", Kind: FieldNumber, Required: true},
			{Name: "stockQuantity", Label: "Остаток", Kind: FieldNumber, Required: true},
			{Name: "categoryId", Label: "Категория", Kind: FieldFK,
				Lookup: &Lookup{Entity: "categories", ValueKey: "id", LabelKey: "nameCategory"}},
			{Name: "supplierId", Label: "Поставщик", Kind: FieldFK,
				Lookup: &Lookup{Entity: "suppliers", ValueKey: "id", LabelKey: "nameSupplier"}},
			{Name: "imageUrl", Label: "Изображение", Kind: FieldText},
		},
		GetItemName:  nameField("nameProduct", "Товар"),
		BuildPayload: buildProductPayload,
		SoftDelete:   true,
	}
}

// buildProductPayload merges the form over the original row. Sales counters
// and the deleted flag always come from the original: the form cannot touch
// them.
func buildProductPayload(form, original backend.Record) backend.Record {
	payload := backend.Record{
		"id":            recordID(original),
		"nameProduct":   fallback(form, original, "nameProduct"),
		"article":       fallback(form, original, "article"),
		"description":   fallback(form, original, "description"),
		"price":         asNumber(fallback(form, original, "price")),
		"stockQuantity": asNumber(fallback(form, original, "stockQuantity")),
		"categoryId":    asNumber(fallback(form, original, "categoryId")),
		"supplierId":    asNumber(fallback(form, original, "supplierId")),
		"imageUrl":      fallback(form, original, "imageUrl"),
	}
	if v, ok := original["salesCount"]; ok {
		payload["salesCount"] = v
	}
	if v, ok := original["deleted"]; ok {
		payload["deleted"] = v
	}
	return payload
}

func categoriesDescriptor(c *backend.Client) Descriptor {
	return Descriptor{
		Key:   "categories",
		Title: "Категории",
		API:   rawAPI(c, "/api/Categories"),
		Columns: []Column{
			{Key: "id", Label: "ID"},
			{Key: "nameCategory", Label: "Название"},
			{Key: "description", Label: "Описание"},
		},
		SearchFields: []string{"nameCategory", "description"},
		FormFields: []FormField{
			{Name: "nameCategory", Label: "Название", Kind: FieldText, Required: true},
			{Name: "description", Label: "Описание", Kind: FieldText},
		},
		GetItemName: nameField("nameCategory", "Категория"),
		BuildPayload: func(form, original backend.Record) backend.Record {
			// The description may be cleared, so it is taken verbatim.
			return backend.Record{
				"id":           recordID(original),
				"nameCategory": fallback(form, original, "nameCategory"),
				"description":  form["description"],
			}
		},
	}
}

func suppliersDescriptor(c *backend.Client) Descriptor {
	return Descriptor{
		Key:   "suppliers",
		Title: "Поставщики",
		API:   rawAPI(c, "/api/Suppliers"),
		Columns: []Column{
			{Key: "id", Label: "ID"},
			{Key: "nameSupplier", Label: "Название"},
			{Key: "contactEmail", Label: "Email"},
			{Key: "phone", Label: "Телефон"},
			{Key: "address", Label: "Адрес"},
		},
		SearchFields: []string{"nameSupplier", "contactEmail", "phone"},
		FormFields: []FormField{
			{Name: "nameSupplier", Label: "Название", Kind: FieldText, Required: true},
			{Name: "contactEmail", Label: "Email", Kind: FieldText},
			{Name: "phone", Label: "Телефон", Kind: FieldText},
			{Name: "address", Label: "Адрес", Kind: FieldText},
		},
		GetItemName: nameField("nameSupplier", "Поставщик"),
		BuildPayload: func(form, original backend.Record) backend.Record {
			// Contact fields are taken as submitted so they can be cleared;
			// only the name falls back.
			return backend.Record{
				"id":           recordID(original),
				"nameSupplier": fallback(form, original, "nameSupplier"),
				"contactEmail": form["contactEmail"],
				"phone":        form["phone"],
				"address":      form["address"],
			}
		},
	}
}

func usersDescriptor(c *backend.Client) Descriptor {
	return Descriptor{
		Key:   "users",
		Title: "Пользователи",
		API:   withIncludeDeleted(c, "/api/Users", rawAPI(c, "/api/Users")),
		Columns: []Column{
			{Key: "id", Label: "ID"},
			{Key: "email", Label: "Email"},
			{Key: "firstName", Label: "Имя"},
			{Key: "nickname", Label: "Никнейм"},
			{Key: "phone", Label: "Телефон"},
			{Key: "roleId", Label: "Роль"},
			{Key: "registrationDate", Label: "Регистрация"},
		},
		SearchFields: []string{"email", "firstName", "nickname", "phone"},
		FormFields: []FormField{
			{Name: "email", Label: "Email", Kind: FieldText, Required: true},
			{Name: "firstName", Label: "Имя", Kind: FieldText},
			{Name: "nickname", Label: "Никнейм", Kind: FieldText},
			{Name: "phone", Label: "Телефон", Kind: FieldText},
			{Name: "roleId", Label: "Роль", Kind: FieldFK,
				Lookup: &Lookup{Entity: "roles", ValueKey: "id", LabelKey: "roleName"}},
		},
		GetItemName: nameField("email", "Пользователь"),
		BuildPayload: func(form, original backend.Record) backend.Record {
			// Registration date is server-owned; roleId is the admin-editable
			// part, everything else falls back to the original profile.
			return backend.Record{
				"id":               recordID(original),
				"email":            fallback(form, original, "email"),
				"firstName":        fallback(form, original, "firstName"),
				"nickname":         fallback(form, original, "nickname"),
				"phone":            fallback(form, original, "phone"),
				"roleId":           asNumber(fallback(form, original, "roleId")),
				"registrationDate": original["registrationDate"],
			}
		},
		SoftDelete: true,
	}
}

func ordersDescriptor(c *backend.Client) Descriptor {
	return Descriptor{
		Key:   "orders",
		Title: "Заказы",
		API:   rawAPI(c, "/api/Orders"),
		Columns: []Column{
			{Key: "id", Label: "ID"},
			{Key: "orderNumber", Label: "Номер"},
			{Key: "userId", Label: "Покупатель"},
			{Key: "orderDate", Label: "Дата"},
			{Key: "totalAmount", Label: "Сумма"},
			{Key: "statusOrderId", Label: "Статус"},
		},
		SearchFields: []string{"orderNumber"},
		FormFields: []FormField{
			{Name: "statusOrderId", Label: "Статус", Kind: FieldFK, Required: true,
				Lookup: &Lookup{Entity: "order-statuses", ValueKey: "id", LabelKey: "nameStatus"}},
		},
		GetItemName: nameField("orderNumber", "Заказ"),
		BuildPayload: func(form, original backend.Record) backend.Record {
			// Line items are immutable once created; only the status moves.
			payload := backend.Record{}
			for k, v := range original {
				payload[k] = v
			}
			payload["statusOrderId"] = asNumber(fallback(form, original, "statusOrderId"))
			return payload
		},
		ReadOnly: true,
	}
}

func reviewsDescriptor(c *backend.Client) Descriptor {
	return Descriptor{
		Key:   "reviews",
		Title: "Отзывы",
		API:   rawAPI(c, "/api/Reviews"),
		Columns: []Column{
			{Key: "id", Label: "ID"},
			{Key: "productId", Label: "Товар"},
			{Key: "userId", Label: "Пользователь"},
			{Key: "rating", Label: "Оценка"},
			{Key: "commentText", Label: "Комментарий"},
			{Key: "reviewDate", Label: "Дата"},
		},
		SearchFields: []string{"commentText"},
		FormFields: []FormField{
			{Name: "rating", Label: "Оценка", Kind: FieldNumber, Required: true},
			{Name: "commentText", Label: "Комментарий", Kind: FieldText, Required: true},
		},
		GetItemName: nameField("commentText", "Отзыв"),
		BuildPayload: func(form, original backend.Record) backend.Record {
			// Authorship and product binding never change through the form.
			rating := int(asNumber(fallback(form, original, "rating")))
			if rating < 1 {
				rating = 1
			}
			if rating > 5 {
				rating = 5
			}
			return backend.Record{
				"id":          recordID(original),
				"productId":   original["productId"],
				"userId":      original["userId"],
				"rating":      rating,
				"commentText": fallback(form, original, "commentText"),
				"reviewDate":  original["reviewDate"],
			}
		},
	}
}

func addressesDescriptor(c *backend.Client) Descriptor {
	return Descriptor{
		Key:   "addresses",
		Title: "Адреса",
		API:   rawAPI(c, "/api/Addresses"),
		Columns: []Column{
			{Key: "id", Label: "ID"},
			{Key: "userId", Label: "Пользователь"},
			{Key: "city", Label: "Город"},
			{Key: "street", Label: "Улица"},
			{Key: "house", Label: "Дом"},
			{Key: "apartment", Label: "Квартира"},
			{Key: "postCode", Label: "Индекс"},
		},
		SearchFields: []string{"city", "street", "postCode"},
		FormFields: []FormField{
			{Name: "city", Label: "Город", Kind: FieldText, Required: true},
			{Name: "street", Label: "Улица", Kind: FieldText, Required: true},
			{Name: "house", Label: "Дом", Kind: FieldText, Required: true},
			{Name: "apartment", Label: "Квартира", Kind: FieldText},
			{Name: "postCode", Label: "Индекс", Kind: FieldText},
		},
		GetItemName: func(rec backend.Record) string {
			city := stringField(rec, "city")
			street := stringField(rec, "street")
			if city == "" && street == "" {
				return "-"
			}
			return fmt.Sprintf("%s, %s", city, street)
		},
		BuildPayload: func(form, original backend.Record) backend.Record {
			return backend.Record{
				"id":        recordID(original),
				"userId":    original["userId"],
				"city":      fallback(form, original, "city"),
				"street":    fallback(form, original, "street"),
				"house":     fallback(form, original, "house"),
				"apartment": form["apartment"],
				"postCode":  form["postCode"],
			}
		},
	}
}

func characteristicsDescriptor(c *backend.Client) Descriptor {
	return Descriptor{
		Key:   "characteristics",
		Title: "Характеристики",
		API:   rawAPI(c, "/api/ProductCharacteristics"),
		Columns: []Column{
			{Key: "id", Label: "ID"},
			{Key: "productId", Label: "Товар"},
			{Key: "nameCharacteristic", Label: "Характеристика"},
			{Key: "value", Label: "Значение"},
		},
		SearchFields: []string{"nameCharacteristic", "value"},
		FormFields: []FormField{
			{Name: "productId", Label: "Товар", Kind: FieldFK, Required: true,
				Lookup: &Lookup{Entity: "products", ValueKey: "id", LabelKey: "nameProduct"}},
			{Name: "nameCharacteristic", Label: "Характеристика", Kind: FieldText, Required: true},
			{Name: "value", Label: "Значение", Kind: FieldText, Required: true},
		},
		GetItemName: nameField("nameCharacteristic", "Характеристика"),
		BuildPayload: func(form, original backend.Record) backend.Record {
			// An existing characteristic stays bound to its product; the
			// product select only matters on create.
			productID := form["productId"]
			if _, ok := original["id"]; ok {
				productID = original["productId"]
			}
			return backend.Record{
				"id":                 recordID(original),
				"productId":          asNumber(productID),
				"nameCharacteristic": fallback(form, original, "nameCharacteristic"),
				"value":              fallback(form, original, "value"),
			}
		},
	}
}

func deliveryTypesDescriptor(c *backend.Client) Descriptor {
	return Descriptor{
		Key:   "delivery-types",
		Title: "Способы доставки",
		API:   rawAPI(c, "/api/DeliveryTypes"),
		Columns: []Column{
			{Key: "id", Label: "ID"},
			{Key: "nameDelivery", Label: "Название"},
			{Key: "price", Label: "Стоимость"},
		},
		SearchFields: []string{"nameDelivery"},
		FormFields: []FormField{
			{Name: "nameDelivery", Label: "Название", Kind: FieldText, Required: true},
			{Name: "price", Label: "Стоимость", Kind: FieldNumber, Required: true},
		},
		GetItemName: nameField("nameDelivery", "Доставка"),
		BuildPayload: func(form, original backend.Record) backend.Record {
			return backend.Record{
				"id":           recordID(original),
				"nameDelivery": fallback(form, original, "nameDelivery"),
				"price":        asNumber(fallback(form, original, "price")),
			}
		},
	}
}

func paymentTypesDescriptor(c *backend.Client) Descriptor {
	return Descriptor{
		Key:   "payment-types",
		Title: "Способы оплаты",
		API:   rawAPI(c, "/api/PaymentTypes"),
		Columns: []Column{
			{Key: "id", Label: "ID"},
			{Key: "namePayment", Label: "Название"},
		},
		SearchFields: []string{"namePayment"},
		FormFields: []FormField{
			{Name: "namePayment", Label: "Название", Kind: FieldText, Required: true},
		},
		GetItemName: nameField("namePayment", "Оплата"),
		BuildPayload: func(form, original backend.Record) backend.Record {
			return backend.Record{
				"id":          recordID(original),
				"namePayment": fallback(form, original, "namePayment"),
			}
		},
	}
}

func nameField(key, placeholder string) func(backend.Record) string {
	return func(rec backend.Record) string {
		if v := stringField(rec, key); v != "" {
			return v
		}
		return placeholder
	}
}

func stringField(rec backend.Record, key string) string {
	if v, ok := rec[key]; ok && v != nil {
		return fmt.Sprint(v)
	}
	return ""
}

// fallback prefers the submitted value and degrades to the original record
// when the form left the field empty.
func fallback(form, original backend.Record, key string) any {
	if v, ok := form[key]; ok && v != nil {
		if s, isStr := v.(string); !isStr || s != "" {
			return v
		}
	}
	return original[key]
}

func recordID(rec backend.Record) int {
	return int(asNumber(rec["id"]))
}

func asNumber(v any) float64 {
	switch n := v.(type) {
	case float64:
		return n
	case float32:
		return float64(n)
	case int:
		return float64(n)
	case int64:
		return float64(n)
	case string:
		f, err := strconv.ParseFloat(n, 64)
		if err != nil {
			return 0
		}
		return f
	default:
		return 0
	}
}
