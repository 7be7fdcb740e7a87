package response

import (
	"restaurant-booking/internal/usecase/queries"

	"github.com/jinzhu/copier"
)

type TableResponse struct {
	ID       int64 `json:"id"`
	Capacity int   `json:"capacity"`
}

type TableAvailabilityResponse struct {
	ID        int64 `json:"id"`
	Capacity  int   `json:"capacity"`
	Available bool  `json:"available"`
}

func FromTableViews(vs []queries.TableView) ([]TableResponse, error) {
	res := make([]TableResponse, 0, len(vs))
	if err := copier.Copy(&res, &vs); err != nil {
		return nil, err
	}
	return res, nil
}

func FromTableAvailability(vs []queries.TableView) ([]TableAvailabilityResponse, error) {
	res := make([]TableAvailabilityResponse, 0, len(vs))
	if err := copier.Copy(&res, &vs); err != nil {
		return nil, err
	}
	return res, nil
}
