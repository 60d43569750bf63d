package office

import (
	"go-office-rental/internal/domain"
	"go-office-rental/internal/transport/http/ez"
)


type createIn struct {
	BuildingName string   `json:"buildingName" binding:"required,max=128"`
	BuildingSize float64  `json:"buildingSize" binding:"required,gt=0"`
	Description  string   `json:"description"  binding:"max=2048"`
	MonthlyRate  float64  `json:"monthlyRate"  binding:"required,gt=0"`
	Images       []string `json:"image"        binding:"required,min=3,dive,required,max=512"`
	Address      string   `json:"address"      binding:"required,max=255"`
	Latitude     *float64 `json:"latitude"     binding:"required,gte=-90,lte=90"`
	Longitude    *float64 `json:"longitude"    binding:"required,gte=-180,lte=180"`
	OfficeTypes  []string `json:"officeType"   binding:"required,min=1,dive,oneof='permanent' 'private day' 'meeting room' 'co working desk' 'event space'"`
}

func (in *createIn) toOffice() *domain.Office {
	return &domain.Office{
		BuildingName: in.BuildingName,
		BuildingSize: in.BuildingSize,
		Description:  in.Description,
		MonthlyRate:  in.MonthlyRate,
		Images:       in.Images,
		Address:      in.Address,
		Latitude:     *in.Latitude,
		Longitude:    *in.Longitude,
		OfficeTypes:  in.OfficeTypes,
	}
}

// updateIn 省略的字段保持不变；状态、租户、所属人不在其中
type updateIn struct {
	BuildingName *string  `json:"buildingName" binding:"omitempty,min=1,max=128"`
	BuildingSize *float64 `json:"buildingSize" binding:"omitempty,gt=0"`
	Description  *string  `json:"description"  binding:"omitempty,max=2048"`
	MonthlyRate  *float64 `json:"monthlyRate"  binding:"omitempty,gt=0"`
	Images       []string `json:"image"        binding:"omitempty,min=3,dive,required,max=512"`
	Address      *string  `json:"address"      binding:"omitempty,min=1,max=255"`
	Latitude     *float64 `json:"latitude"     binding:"omitempty,gte=-90,lte=90"`
	Longitude    *float64 `json:"longitude"    binding:"omitempty,gte=-180,lte=180"`
	OfficeTypes  []string `json:"officeType"   binding:"omitempty,min=1,dive,oneof='permanent' 'private day' 'meeting room' 'co working desk' 'event space'"`
}

func (in *updateIn) toPatch() (*domain.Office, []string) {
	p := &domain.Office{}
	var cols []string
	if in.BuildingName != nil {
		p.BuildingName, cols = *in.BuildingName, append(cols, "building_name")
	}
	if in.BuildingSize != nil {
		p.BuildingSize, cols = *in.BuildingSize, append(cols, "building_size")
	}
	if in.Description != nil {
		p.Description, cols = *in.Description, append(cols, "description")
	}
	if in.MonthlyRate != nil {
		p.MonthlyRate, cols = *in.MonthlyRate, append(cols, "monthly_rate")
	}
	if in.Images != nil {
		p.Images, cols = in.Images, append(cols, "images")
	}
	if in.Address != nil {
		p.Address, cols = *in.Address, append(cols, "address")
	}
	if in.Latitude != nil {
		p.Latitude, cols = *in.Latitude, append(cols, "latitude")
	}
	if in.Longitude != nil {
		p.Longitude, cols = *in.Longitude, append(cols, "longitude")
	}
	if in.OfficeTypes != nil {
		p.OfficeTypes, cols = in.OfficeTypes, append(cols, "office_types")
	}
	return p, cols
}

type browseQuery struct {
	ez.PageQuery
	Status string `form:"status" binding:"omitempty,oneof=available rented"`
}
