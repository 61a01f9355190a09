package repository

import (
	"context"
	"sort"
	"strings"
	"time"

	"cloud.google.com/go/firestore"
	"google.golang.org/api/iterator"

	"egresados/internal/domain/entity"
	"egresados/internal/domain/repository"
	"egresados/pkg/errors"
)

type firestoreProfileRepository struct {
	client *firestore.Client
}

func NewFirestoreProfileRepository(client *firestore.Client) repository.ProfileRepository {
	return &firestoreProfileRepository{client: client}
}

func (r *firestoreProfileRepository) Create(ctx context.Context, profile *entity.Profile) error {
	now := time.Now()
	profile.CreatedAt = now
	profile.UpdatedAt = now

	_, err := r.client.Collection(profilesCollection).Doc(profile.ID).Create(ctx, profile)
	return firestoreError(err, "Profile", "create profile")
}

func (r *firestoreProfileRepository) GetByID(ctx context.Context, id string) (*entity.Profile, error) {
	doc, err := r.client.Collection(profilesCollection).Doc(id).Get(ctx)
	if err != nil {
		return nil, firestoreError(err, "Profile", "get profile")
	}

	var profile entity.Profile
	if err := doc.DataTo(&profile); err != nil {
		return nil, errors.Internal("Failed to parse profile data", err)
	}
	return &profile, nil
}

func (r *firestoreProfileRepository) GetByUserID(ctx context.Context, userID string) (*entity.Profile, error) {
	iter := r.client.Collection(profilesCollection).Where("userId", "==", userID).Limit(1).Documents(ctx)
	defer iter.Stop()

	doc, err := iter.Next()
	if err == iterator.Done {
		return nil, errors.NotFound("Profile", nil)
	}
	if err != nil {
		return nil, errors.Internal("Failed to get profile", err)
	}

	var profile entity.Profile
	if err := doc.DataTo(&profile); err != nil {
		return nil, errors.Internal("Failed to parse profile data", err)
	}
	return &profile, nil
}

func (r *firestoreProfileRepository) GetByIDs(ctx context.Context, ids []string) (map[string]*entity.Profile, error) {
	result := make(map[string]*entity.Profile, len(ids))
	if len(ids) == 0 {
		return result, nil
	}

	refs := make([]*firestore.DocumentRef, 0, len(ids))
	for _, id := range mergeIDs(ids) {
		refs = append(refs, r.client.Collection(profilesCollection).Doc(id))
	}

	docs, err := r.client.GetAll(ctx, refs)
	if err != nil {
		return nil, errors.Internal("Failed to get profiles", err)
	}
	for _, doc := range docs {
		if !doc.Exists() {
			continue
		}
		var profile entity.Profile
		if err := doc.DataTo(&profile); err != nil {
			return nil, errors.Internal("Failed to parse profile data", err)
		}
		result[profile.ID] = &profile
	}
	return result, nil
}

func (r *firestoreProfileRepository) Update(ctx context.Context, profile *entity.Profile) error {
	profile.UpdatedAt = time.Now()
	_, err := r.client.Collection(profilesCollection).Doc(profile.ID).Set(ctx, profile)
	return firestoreError(err, "Profile", "update profile")
}

func (r *firestoreProfileRepository) completed(ctx context.Context) ([]*entity.Profile, error) {
	profiles, err := collect[entity.Profile](r.client.Collection(profilesCollection).Where("completed", "==", true).Documents(ctx))
	if err != nil {
		return nil, errors.Internal("Failed to list profiles", err)
	}
	return profiles, nil
}

func (r *firestoreProfileRepository) Search(ctx context.Context, filter repository.ProfileFilter, limit, offset int) ([]*entity.Profile, int64, error) {
	query := r.client.Collection(profilesCollection).Where("completed", "==", true)
	if filter.Program != "" {
		query = query.Where("academicProgram", "==", filter.Program)
	}
	if filter.GraduationYear > 0 {
		query = query.Where("graduationYear", "==", filter.GraduationYear)
	}

	profiles, err := collect[entity.Profile](query.Documents(ctx))
	if err != nil {
		return nil, 0, errors.Internal("Failed to search profiles", err)
	}

	if q := strings.ToLower(strings.TrimSpace(filter.Query)); q != "" {
		matched := profiles[:0]
		for _, p := range profiles {
			if strings.Contains(strings.ToLower(p.FirstName), q) ||
				strings.Contains(strings.ToLower(p.LastName), q) ||
				strings.Contains(strings.ToLower(p.AcademicProgram), q) {
				matched = append(matched, p)
			}
		}
		profiles = matched
	}

	sort.SliceStable(profiles, func(i, j int) bool {
		if profiles[i].FirstName != profiles[j].FirstName {
			return profiles[i].FirstName < profiles[j].FirstName
		}
		return profiles[i].LastName < profiles[j].LastName
	})

	return window(profiles, limit, offset), int64(len(profiles)), nil
}

func (r *firestoreProfileRepository) ListPrograms(ctx context.Context) ([]string, error) {
	profiles, err := r.completed(ctx)
	if err != nil {
		return nil, err
	}

	seen := make(map[string]struct{})
	var programs []string
	for _, p := range profiles {
		if p.AcademicProgram == "" {
			continue
		}
		if _, ok := seen[p.AcademicProgram]; ok {
			continue
		}
		seen[p.AcademicProgram] = struct{}{}
		programs = append(programs, p.AcademicProgram)
	}
	sort.Strings(programs)
	return programs, nil
}

func (r *firestoreProfileRepository) ListGraduationYears(ctx context.Context) ([]int, error) {
	profiles, err := r.completed(ctx)
	if err != nil {
		return nil, err
	}

	seen := make(map[int]struct{})
	var years []int
	for _, p := range profiles {
		if p.GraduationYear <= 0 {
			continue
		}
		if _, ok := seen[p.GraduationYear]; ok {
			continue
		}
		seen[p.GraduationYear] = struct{}{}
		years = append(years, p.GraduationYear)
	}
	sort.Sort(sort.Reverse(sort.IntSlice(years)))
	return years, nil
}
