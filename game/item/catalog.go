package item

// Category groups items for the inventory UI and reward resolution.
type Category string

const (
	CategoryWeapon   Category = "weapon"
	CategoryAmmo     Category = "ammo"
	CategoryHealth   Category = "health"
	CategoryArmor    Category = "armor"
	CategoryMoney    Category = "money"
	CategoryKey      Category = "key"
	CategoryDocument Category = "document"
)

// Def is one item definition in the shared catalog.
type Def struct {
	Name     string   `json:"name"`
	Category Category `json:"category"`
	Value    int      `json:"value"`
}

// Catalog maps item ids to their definitions.
type Catalog map[string]Def

// DefaultCatalog returns the built-in item set. Map data and reward
// bundles are authored against these ids, so they must stay stable.
func DefaultCatalog() Catalog {
	return Catalog{
		"weapon_pistol":   {Name: "Pistol", Category: CategoryWeapon, Value: 25},
		"weapon_shotgun":  {Name: "Shotgun", Category: CategoryWeapon, Value: 50},
		"weapon_rifle":    {Name: "Rifle", Category: CategoryWeapon, Value: 75},
		"ammo_pistol":     {Name: "Pistol Ammo", Category: CategoryAmmo, Value: 12},
		"ammo_shotgun":    {Name: "Shotgun Shells", Category: CategoryAmmo, Value: 8},
		"ammo_rifle":      {Name: "Rifle Ammo", Category: CategoryAmmo, Value: 30},
		"health_pack":     {Name: "Health Pack", Category: CategoryHealth, Value: 50},
		"armor_vest":      {Name: "Armor Vest", Category: CategoryArmor, Value: 100},
		"money_small":     {Name: "Small Money Bag", Category: CategoryMoney, Value: 1000},
		"money_medium":    {Name: "Medium Money Bag", Category: CategoryMoney, Value: 5000},
		"money_large":     {Name: "Large Money Bag", Category: CategoryMoney, Value: 25000},
		"key_house":       {Name: "House Key", Category: CategoryKey, Value: 1},
		"document_secret": {Name: "Secret Document", Category: CategoryDocument, Value: 0},
	}
}
