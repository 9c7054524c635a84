package usecase

import "fmt"

// Collection — имя коллекции, кэшируемой в памяти.
type Collection string

const (
	CollectionProducts       Collection = "products"
	CollectionCategories     Collection = "categories"
	CollectionOrders         Collection = "orders"
	CollectionRepairRequests Collection = "repair_requests"
	CollectionCustomers      Collection = "customers"
)

// Collections — все коллекции.
var Collections = []Collection{
	CollectionProducts, CollectionCategories, CollectionOrders, CollectionRepairRequests, CollectionCustomers,
}

// ParseCollection — имя из URL/события → Collection.
func ParseCollection(name string) (Collection, error) {
	for _, c := range Collections {
		if string(c) == name {
			return c, nil
		}
	}
	return "", fmt.Errorf("unknown collection %q", name)
}

// Mutation — вид изменения данных в удалённом хранилище.
type Mutation string

const (
	MutationAddProduct          Mutation = "add_product"
	MutationUpdateProduct       Mutation = "update_product"
	MutationDeleteProduct       Mutation = "delete_product"
	MutationAddCategory         Mutation = "add_category"
	MutationUpdateCategory      Mutation = "update_category"
	MutationDeleteCategory      Mutation = "delete_category"
	MutationUpdateOrderStatus   Mutation = "update_order_status"
	MutationPlaceOrder          Mutation = "place_order"
	MutationAddRepairRequest    Mutation = "add_repair_request"
	MutationUpdateRepairStatus  Mutation = "update_repair_status"
	MutationUpdateRepairRequest Mutation = "update_repair_request"
	MutationDeleteRepairRequest Mutation = "delete_repair_request"
)

// Invalidations — какие коллекции принудительно обновляются после мутации (в указанном порядке).
// Товар → категории (product_count), категория → товары (category_name в карточке),
// заказ → товары (остатки) и покупатели, приёмка ремонта → покупатели.
var Invalidations = map[Mutation][]Collection{
	MutationAddProduct:          {CollectionProducts, CollectionCategories},
	MutationUpdateProduct:       {CollectionProducts, CollectionCategories},
	MutationDeleteProduct:       {CollectionProducts, CollectionCategories},
	MutationAddCategory:         {CollectionCategories, CollectionProducts},
	MutationUpdateCategory:      {CollectionCategories, CollectionProducts},
	MutationDeleteCategory:      {CollectionCategories, CollectionProducts},
	MutationUpdateOrderStatus:   {CollectionOrders},
	MutationPlaceOrder:          {CollectionOrders, CollectionProducts, CollectionCustomers},
	MutationAddRepairRequest:    {CollectionRepairRequests, CollectionCustomers},
	MutationUpdateRepairStatus:  {CollectionRepairRequests},
	MutationUpdateRepairRequest: {CollectionRepairRequests},
	MutationDeleteRepairRequest: {CollectionRepairRequests},
}
