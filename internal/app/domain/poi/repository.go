package poi

import (
	"context"
	"fmt"
	"slices"

	"github.com/paulmach/orb"

	"github.com/FACorreiaa/loci-citymap/internal/app/models"
)

var (
	_ Repository = (*StaticRepository)(nil)
	_ Repository = (*PostgresRepository)(nil)
)

// Repository is the read interface of the POI store.
type Repository interface {
	ListPOIs(ctx context.Context) ([]models.POI, error)
}

// StaticRepository serves a fixed, immutable list of POIs.
type StaticRepository struct {
	pois []models.POI
}

// NewStaticRepository validates pois and keeps a private copy of them.
func NewStaticRepository(pois []models.POI) (*StaticRepository, error) {
	seen := make(map[string]struct{}, len(pois))
	for _, p := range pois {
		if err := p.Validate(); err != nil {
			return nil, err
		}
		if _, dup := seen[p.ID]; dup {
			return nil, fmt.Errorf("%w: duplicate poi id %s", models.ErrValidation, p.ID)
		}
		seen[p.ID] = struct{}{}
	}
	return &StaticRepository{pois: slices.Clone(pois)}, nil
}

// NewSeededRepository returns the store holding the built-in city dataset.
func NewSeededRepository() *StaticRepository {
	return &StaticRepository{pois: SeedPOIs()}
}

func (r *StaticRepository) ListPOIs(_ context.Context) ([]models.POI, error) {
	return slices.Clone(r.pois), nil
}

// SeedPOIs is the built-in Paris dataset.
func SeedPOIs() []models.POI {
	return []models.POI{
		{
			ID:          "1",
			Name:        "Eiffel Tower",
			Category:    models.CategoryLandmarks,
			Coordinates: orb.Point{2.2945, 48.8584},
			Description: "Wrought-iron lattice tower on the Champ de Mars, built for the 1889 World's Fair.",
		},
		{
			ID:          "2",
			Name:        "Louvre Museum",
			Category:    models.CategoryArt,
			Coordinates: orb.Point{2.3376, 48.8606},
			Description: "The world's most-visited museum, home of the Mona Lisa and the Winged Victory.",
		},
		{
			ID:          "3",
			Name:        "Notre-Dame Cathedral",
			Category:    models.CategoryHistory,
			Coordinates: orb.Point{2.3499, 48.8530},
			Description: "Medieval Catholic cathedral on the Île de la Cité, a masterpiece of French Gothic architecture.",
		},
		{
			ID:          "4",
			Name:        "Arc de Triomphe",
			Category:    models.CategoryLandmarks,
			Coordinates: orb.Point{2.2950, 48.8738},
			Description: "Triumphal arch at the western end of the Champs-Élysées honouring those who fought for France.",
		},
		{
			ID:          "5",
			Name:        "Le Comptoir du Relais",
			Category:    models.CategoryFood,
			Coordinates: orb.Point{2.3387, 48.8522},
			Description: "Classic Saint-Germain bistro known for its seasonal French cooking.",
		},
		{
			ID:          "6",
			Name:        "Musée d'Orsay",
			Category:    models.CategoryArt,
			Coordinates: orb.Point{2.3266, 48.8600},
			Description: "Impressionist and post-impressionist masterpieces in a former Beaux-Arts railway station.",
		},
		{
			ID:          "7",
			Name:        "Montmartre",
			Category:    models.CategoryCulture,
			Coordinates: orb.Point{2.3431, 48.8867},
			Description: "Hilltop artists' quarter crowned by the Sacré-Cœur basilica.",
		},
		{
			ID:          "8",
			Name:        "Marché des Enfants Rouges",
			Category:    models.CategoryFood,
			Coordinates: orb.Point{2.3620, 48.8628},
			Description: "The oldest covered market in Paris, packed with food stalls from around the world.",
		},
	}
}
