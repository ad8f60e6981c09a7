package catalog

// DefaultRegions are the regions every installation starts with
func DefaultRegions() []RegionRecord {
	return []RegionRecord{
		{Code: "NA", Name: "North America"},
		{Code: "EU", Name: "Europe"},
		{Code: "AS", Name: "Asia"},
		{Code: "SA", Name: "South America"},
		{Code: "AF", Name: "Africa"},
		{Code: "OC", Name: "Oceania"},
	}
}

// DefaultCategories are the base categories, parents before children
func DefaultCategories() []CategoryRecord {
	return []CategoryRecord{
		{Name: "Clothing", Description: "All vintage clothing items"},
		{Name: "Footwear", Description: "Shoes, boots, sneakers"},
		{Name: "Accessories", Description: "Bags, belts, hats, jewelry"},
		{Name: "Furniture", Description: "Chairs, tables, storage, home furnishings"},
		{Name: "Electronics", Description: "Vintage electronics and media"},
		{Name: "Collectibles", Description: "Collectible items and curios"},

		{Name: "Outerwear", Description: "Coats, jackets and blazers", Parent: "Clothing"},
		{Name: "Sneakers", Description: "Deadstock and worn sneakers", Parent: "Footwear"},
		{Name: "Jewelry", Description: "Rings, necklaces, watches", Parent: "Accessories"},
		{Name: "Vinyl Records", Description: "LPs, singles and box sets", Parent: "Electronics"},
	}
}

// Default returns the built-in reference catalog
func Default() Catalog {
	return MustNew(DefaultRegions(), DefaultCategories())
}
