package handlers

import (
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/ayohana/to-do-list/internal/models"
)

// ListViewModel is the data passed to the item list template.
type ListViewModel struct {
	Username string
	Items    []models.Item
}

// DetailsViewModel is the data passed to the item details template.
type DetailsViewModel struct {
	Item       *models.Item
	Categories []models.ItemCategory
}

// FormViewModel is the data passed to the create/edit form template.
type FormViewModel struct {
	Item       *models.Item
	IsEdit     bool
	Error      string
	Categories []models.Category
}

// DeleteViewModel is the data passed to the delete confirmation template.
type DeleteViewModel struct {
	Item *models.Item
}

// CategoriesViewModel is the data passed to the category list template.
type CategoriesViewModel struct {
	Categories []models.Category
}

// ListItems renders the current user's items.
func (h *Handlers) ListItems(w http.ResponseWriter, r *http.Request) {
	user := GetUserFromContext(r)

	items, err := h.db.ListItems(user.ID)
	if err != nil {
		serverError(w, "failed to list items", err)
		return
	}

	h.render(w, "items.html", ListViewModel{Username: user.Username, Items: items})
}

// ItemDetails renders one item with its categories resolved to names.
func (h *Handlers) ItemDetails(w http.ResponseWriter, r *http.Request) {
	item, ok := h.ownedItem(w, r)
	if !ok {
		return
	}

	categories, err := h.db.GetItemCategories(item.ID)
	if err != nil {
		serverError(w, "failed to load item categories", err)
		return
	}

	h.render(w, "details.html", DetailsViewModel{Item: item, Categories: categories})
}

// CreateItemForm renders the form to create a new item.
func (h *Handlers) CreateItemForm(w http.ResponseWriter, r *http.Request) {
	categories, err := h.db.ListCategories()
	if err != nil {
		serverError(w, "failed to list categories", err)
		return
	}
	h.render(w, "item_form.html", FormViewModel{Categories: categories})
}

// CreateItem handles the creation of a new item, owned by the current
// user. A non-zero category selection attaches that category in the same
// operation.
func (h *Handlers) CreateItem(w http.ResponseWriter, r *http.Request) {
	user := GetUserFromContext(r)

	description, categoryID, err := parseItemForm(r)
	if err != nil {
		h.renderItemFormError(w, nil, err.Error())
		return
	}

	if categoryID != 0 {
		if _, err := h.db.GetCategory(categoryID); err != nil {
			if isNotFound(err) {
				h.renderItemFormError(w, nil, "Unknown category")
				return
			}
			serverError(w, "failed to load category", err)
			return
		}
	}

	if _, err := h.db.CreateItem(description, user.ID, categoryID); err != nil {
		serverError(w, "failed to create item", err)
		return
	}

	http.Redirect(w, r, "/items", http.StatusFound)
}

// EditItemForm renders the form to edit an existing item.
func (h *Handlers) EditItemForm(w http.ResponseWriter, r *http.Request) {
	item, ok := h.ownedItem(w, r)
	if !ok {
		return
	}

	categories, err := h.db.ListCategories()
	if err != nil {
		serverError(w, "failed to list categories", err)
		return
	}

	h.render(w, "item_form.html", FormViewModel{Item: item, IsEdit: true, Categories: categories})
}

// EditItem updates an item's description. A non-zero category selection
// attaches an additional category; existing associations are never
// replaced or removed here.
func (h *Handlers) EditItem(w http.ResponseWriter, r *http.Request) {
	item, ok := h.ownedItem(w, r)
	if !ok {
		return
	}

	description, categoryID, err := parseItemForm(r)
	if err != nil {
		h.renderItemFormError(w, item, err.Error())
		return
	}

	if err := h.db.UpdateItemDescription(item.ID, description); err != nil {
		if isNotFound(err) {
			h.notFound(w)
			return
		}
		serverError(w, "failed to update item", err)
		return
	}

	if ok := h.attachIfChosen(w, item.ID, categoryID); !ok {
		return
	}

	http.Redirect(w, r, "/items", http.StatusFound)
}

// AddCategoryForm renders the form to attach a category to an item.
func (h *Handlers) AddCategoryForm(w http.ResponseWriter, r *http.Request) {
	item, ok := h.ownedItem(w, r)
	if !ok {
		return
	}

	categories, err := h.db.ListCategories()
	if err != nil {
		serverError(w, "failed to list categories", err)
		return
	}

	h.render(w, "addcategory.html", FormViewModel{Item: item, Categories: categories})
}

// AddCategory attaches a category to an item without touching the
// description.
func (h *Handlers) AddCategory(w http.ResponseWriter, r *http.Request) {
	item, ok := h.ownedItem(w, r)
	if !ok {
		return
	}

	if err := r.ParseForm(); err != nil {
		http.Error(w, "Invalid form submission", http.StatusBadRequest)
		return
	}
	categoryID, _ := strconv.ParseInt(r.FormValue("category_id"), 10, 64)

	if ok := h.attachIfChosen(w, item.ID, categoryID); !ok {
		return
	}

	http.Redirect(w, r, "/items", http.StatusFound)
}

// DeleteItemForm renders the delete confirmation page.
func (h *Handlers) DeleteItemForm(w http.ResponseWriter, r *http.Request) {
	item, ok := h.ownedItem(w, r)
	if !ok {
		return
	}
	h.render(w, "delete.html", DeleteViewModel{Item: item})
}

// DeleteItem removes an item after confirmation. Its join rows go with it.
func (h *Handlers) DeleteItem(w http.ResponseWriter, r *http.Request) {
	item, ok := h.ownedItem(w, r)
	if !ok {
		return
	}

	if err := h.db.DeleteItem(item.ID); err != nil {
		if isNotFound(err) {
			h.notFound(w)
			return
		}
		serverError(w, "failed to delete item", err)
		return
	}

	http.Redirect(w, r, "/items", http.StatusFound)
}

// DeleteCategory removes a single join row by its own identifier,
// detaching one category from one item.
func (h *Handlers) DeleteCategory(w http.ResponseWriter, r *http.Request) {
	user := GetUserFromContext(r)

	if err := r.ParseForm(); err != nil {
		http.Error(w, "Invalid form submission", http.StatusBadRequest)
		return
	}

	joinID, err := strconv.ParseInt(r.FormValue("join_id"), 10, 64)
	if err != nil {
		http.Error(w, "Invalid join id", http.StatusBadRequest)
		return
	}

	join, err := h.db.GetJoin(joinID)
	if err != nil {
		if isNotFound(err) {
			h.notFound(w)
			return
		}
		serverError(w, "failed to load join row", err)
		return
	}

	// The join belongs to whoever owns its item.
	item, err := h.db.GetItem(join.ItemID)
	if err != nil {
		if isNotFound(err) {
			h.notFound(w)
			return
		}
		serverError(w, "failed to load item for join row", err)
		return
	}
	if item.UserID != user.ID {
		h.notFound(w)
		return
	}

	if err := h.db.DeleteJoin(joinID); err != nil {
		if isNotFound(err) {
			h.notFound(w)
			return
		}
		serverError(w, "failed to delete join row", err)
		return
	}

	http.Redirect(w, r, "/items", http.StatusFound)
}

// ListCategories renders every category, unfiltered. Categories are
// global; there is no web CRUD beyond this listing.
func (h *Handlers) ListCategories(w http.ResponseWriter, r *http.Request) {
	categories, err := h.db.ListCategories()
	if err != nil {
		serverError(w, "failed to list categories", err)
		return
	}
	h.render(w, "categories.html", CategoriesViewModel{Categories: categories})
}

// ownedItem loads the item named by the path and verifies it belongs to
// the session user. On failure it has already written the response.
func (h *Handlers) ownedItem(w http.ResponseWriter, r *http.Request) (*models.Item, bool) {
	user := GetUserFromContext(r)

	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		h.notFound(w)
		return nil, false
	}

	item, err := h.db.GetItem(id)
	if err != nil {
		if isNotFound(err) {
			h.notFound(w)
			return nil, false
		}
		serverError(w, "failed to load item", err)
		return nil, false
	}

	if item.UserID != user.ID {
		h.notFound(w)
		return nil, false
	}

	return item, true
}

// attachIfChosen attaches categoryID to itemID unless categoryID is zero,
// which means "no category chosen". Reports whether the caller should
// continue (false means a response was already written).
func (h *Handlers) attachIfChosen(w http.ResponseWriter, itemID, categoryID int64) bool {
	if categoryID == 0 {
		return true
	}

	if _, err := h.db.GetCategory(categoryID); err != nil {
		if isNotFound(err) {
			h.notFound(w)
			return false
		}
		serverError(w, "failed to load category", err)
		return false
	}

	if err := h.db.AttachCategory(itemID, categoryID); err != nil {
		serverError(w, "failed to attach category", err)
		return false
	}
	return true
}

// renderItemFormError redisplays the item form with a validation message.
func (h *Handlers) renderItemFormError(w http.ResponseWriter, item *models.Item, msg string) {
	categories, err := h.db.ListCategories()
	if err != nil {
		serverError(w, "failed to list categories", err)
		return
	}
	h.render(w, "item_form.html", FormViewModel{
		Item:       item,
		IsEdit:     item != nil,
		Error:      msg,
		Categories: categories,
	})
}

func parseItemForm(r *http.Request) (description string, categoryID int64, err error) {
	if err := r.ParseForm(); err != nil {
		return "", 0, fmt.Errorf("invalid form submission")
	}

	description = strings.TrimSpace(r.FormValue("description"))
	if description == "" {
		return "", 0, fmt.Errorf("description is required")
	}

	// A missing or unparseable selection counts as "no category".
	categoryID, _ = strconv.ParseInt(r.FormValue("category_id"), 10, 64)
	return description, categoryID, nil
}
