package course

import "coursearchitect/internal/models"

// FindItem returns the course item with the given id, searching the general
// section first and then every unit in order.
func FindItem(id string) (models.CourseItem, bool) {
	for _, item := range Data.General.Items {
		if item.ID == id {
			return item, true
		}
	}
	for _, unit := range Data.Units {
		for _, item := range unit.Items {
			if item.ID == id {
				return item, true
			}
		}
	}
	return models.CourseItem{}, false
}

// FindUnit returns the unit with the given id. The general section is
// addressable by its own id like any unit.
func FindUnit(id string) (models.CourseUnit, bool) {
	if Data.General.ID == id {
		return Data.General, true
	}
	for _, unit := range Data.Units {
		if unit.ID == id {
			return unit, true
		}
	}
	return models.CourseUnit{}, false
}

// AllItems returns every item in structure order: general section first,
// then each unit.
func AllItems() []models.CourseItem {
	items := make([]models.CourseItem, 0, len(Data.General.Items)+len(Data.Units)*9)
	items = append(items, Data.General.Items...)
	for _, unit := range Data.Units {
		items = append(items, unit.Items...)
	}
	return items
}
