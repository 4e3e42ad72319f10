package models

// Geo tables are stored as a single document per collection:
// {name: "districts", data: [...]}.
const (
	GeoDistricts = "districts"
	GeoUpazilas  = "upazilas"
)

type District struct {
	ID         string `bson:"id" json:"id"`
	DivisionID string `bson:"division_id" json:"division_id"`
	Name       string `bson:"name" json:"name"`
	BnName     string `bson:"bn_name" json:"bn_name"`
	URL        string `bson:"url" json:"url"`
}

type Upazila struct {
	ID         string `bson:"id" json:"id"`
	DistrictID string `bson:"district_id" json:"district_id"`
	Name       string `bson:"name" json:"name"`
	BnName     string `bson:"bn_name" json:"bn_name"`
	URL        string `bson:"url" json:"url"`
}
