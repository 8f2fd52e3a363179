package enum

// CustomCategory is the catalog entry that asks the user for a free-text category
const CustomCategory = "Otros"

// StandardCategories is the fixed list offered by the product form
var StandardCategories = []string{
	"Bedidas",
	"Aseo",
	"Limpieza",
	"Snacks",
	"Embutidos",
	"Grasas",
	CustomCategory,
}

// IsStandardCategory reports whether name is one of StandardCategories
func IsStandardCategory(name string) bool {
	for _, c := range StandardCategories {
		if c == name {
			return true
		}
	}
	return false
}
