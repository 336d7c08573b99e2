package order

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/dropDatabas3/comanda/internal/domain/repository"
)

func TestFromOrder_ItemDescriptionGroupsByName(t *testing.T) {
	o := repository.Order{
		ID:          3,
		TableNumber: 4,
		Items: []repository.OrderItem{
			{ProductID: 1, ItemName: "Tea", Quantity: 1},
			{ProductID: 2, ItemName: "Bun", Quantity: 1},
			{ProductID: 9, ItemName: "Tea", Quantity: 1},
		},
	}
	resp := FromOrder(o)
	assert.Equal(t, "Tea x2, Bun x1", resp.ItemDescription)
	assert.Len(t, resp.Items, 3)

	assert.Equal(t, "", FromOrder(repository.Order{}).ItemDescription)
	assert.NotNil(t, FromOrder(repository.Order{}).Items)
}

func TestOrderRequest_Validate(t *testing.T) {
	ok := OrderRequest{TableNumber: 1, Items: []OrderItemRequest{{ProductID: 1, Quantity: 2}}}
	assert.NoError(t, ok.Validate())

	bad := []OrderRequest{
		{TableNumber: 0, Items: ok.Items},
		{TableNumber: 1},
		{TableNumber: 1, Items: []OrderItemRequest{{ProductID: 1, Quantity: 0}}},
		{TableNumber: 1, Items: []OrderItemRequest{{ProductID: 0, Quantity: 1}}},
	}
	for _, r := range bad {
		assert.ErrorIs(t, r.Validate(), repository.ErrInvalidInput)
	}
}
