package services

import (
	"database/sql"
	"errors"
	"slices"

	"threadline/internal/apperr"
	"threadline/internal/domain"
	applog "threadline/internal/log"
	"threadline/internal/media"
	"threadline/internal/repos"
	"threadline/internal/validate"
)

type CatalogService struct {
	Prods *repos.ProductRepo
	Media *media.Store
}

func NewCatalogService(prods *repos.ProductRepo, store *media.Store) *CatalogService {
	return &CatalogService{Prods: prods, Media: store}
}

func (s *CatalogService) List() ([]domain.Product, error) {
	out, err := s.Prods.List()
	if err != nil {
		return nil, apperr.Storage("Failed to load products.", err)
	}
	return out, nil
}

func (s *CatalogService) Get(id int64) (domain.Product, error) {
	p, err := s.Prods.Get(id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.Product{}, apperr.NotFound("Product not found.")
		}
		return domain.Product{}, apperr.Storage("Failed to load the product.", err)
	}
	return p, nil
}

func checkOptions(options []domain.ProductOption) error {
	for _, opt := range options {
		if !validate.NotBlank(opt.Name) || opt.Price < 0 {
			return apperr.Validation("Each option must have a valid name and price.")
		}
	}
	return nil
}

// Create requires a name, description, at least one valid option and at
// least one image.
func (s *CatalogService) Create(name, description string, options []domain.ProductOption, images []string) (domain.Product, error) {
	if !validate.NotBlank(name) || !validate.NotBlank(description) || len(options) == 0 || len(images) == 0 {
		return domain.Product{}, apperr.Validation("All product fields are required.")
	}
	if err := checkOptions(options); err != nil {
		return domain.Product{}, err
	}
	p, err := s.Prods.Insert(domain.Product{Name: name, Description: description, Options: options, Images: images})
	if err != nil {
		return domain.Product{}, apperr.Storage("Failed to add product.", err)
	}
	return p, nil
}

// ProductUpdate carries a partial catalog edit. Empty name/description mean
// "leave alone"; a nil Options slice means the options list is untouched; a
// nil ImageOrder means no reorder.
type ProductUpdate struct {
	Name        string
	Description string
	Options     []domain.ProductOption
	DeleteSet   []string
	NewImages   []string
	ImageOrder  []int
}

// Update applies the three independent image operations in the original's
// sequence: delete, append, reorder. Reorder is strict: any index outside
// the resulting image list rejects the whole update.
func (s *CatalogService) Update(id int64, upd ProductUpdate) (domain.Product, error) {
	p, err := s.Get(id)
	if err != nil {
		return domain.Product{}, err
	}

	if upd.Name != "" {
		p.Name = upd.Name
	}
	if upd.Description != "" {
		p.Description = upd.Description
	}
	if len(upd.Options) > 0 {
		if err := checkOptions(upd.Options); err != nil {
			return domain.Product{}, err
		}
		p.Options = upd.Options
	}

	var removed []string
	if len(upd.DeleteSet) > 0 {
		kept := make([]string, 0, len(p.Images))
		for _, img := range p.Images {
			if slices.Contains(upd.DeleteSet, img) {
				removed = append(removed, img)
			} else {
				kept = append(kept, img)
			}
		}
		p.Images = kept
	}

	p.Images = append(p.Images, upd.NewImages...)

	if upd.ImageOrder != nil {
		reordered := make([]string, 0, len(upd.ImageOrder))
		for _, idx := range upd.ImageOrder {
			if idx < 0 || idx >= len(p.Images) {
				return domain.Product{}, apperr.Validation("Invalid image order.")
			}
			reordered = append(reordered, p.Images[idx])
		}
		p.Images = reordered
	}

	if err := s.Prods.Update(p); err != nil {
		return domain.Product{}, apperr.Storage("Failed to update product.", err)
	}
	// File cleanup only after the record is safely written; failures are
	// logged and swallowed.
	s.removeFiles(removed)
	return p, nil
}

// Delete removes the product and best-effort deletes its image files.
func (s *CatalogService) Delete(id int64) (domain.Product, error) {
	p, err := s.Get(id)
	if err != nil {
		return domain.Product{}, err
	}
	if err := s.Prods.Delete(id); err != nil {
		return domain.Product{}, apperr.Storage("Failed to delete product.", err)
	}
	s.removeFiles(p.Images)
	return p, nil
}

func (s *CatalogService) removeFiles(paths []string) {
	if s.Media == nil {
		return
	}
	for _, img := range paths {
		if err := s.Media.Remove(img); err != nil {
			applog.Error(nil, "media.remove.fail", err, map[string]any{"path": img})
		}
	}
}
