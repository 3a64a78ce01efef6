package services

import (
	"errors"
	"math"

	"github.com/amou-arta/ostadsanj3/internal/db"
	"github.com/amou-arta/ostadsanj3/internal/models"

	"gorm.io/gorm"
)

// Rating bounds for every evaluation criterion.
const (
	EvaluationMin = 1
	EvaluationMax = 5
)

// CriteriaValues maps criterion keys to submitted ratings.
type CriteriaValues map[string]int

// CriterionStat is the aggregate for one criterion of one professor.
type CriterionStat struct {
	Key     string  `json:"key"`
	Name    string  `json:"name"`
	Average float64 `json:"average"`
	Count   int64   `json:"count"`
}

// GetUserEvaluation returns the user's evaluation of the professor, or
// nil when none exists. At most one row matches by construction.
func GetUserEvaluation(professorID, userID uint) (*models.Evaluation, error) {
	var evaluation models.Evaluation
	err := db.DB.Where("professor_id = ? AND user_id = ?", professorID, userID).
		First(&evaluation).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &evaluation, nil
}

// UpsertEvaluation records or updates the user's evaluation. The update
// path overwrites the criterion columns in place and never touches
// CreatedAt, so updating does not reset the evaluation's age.
func UpsertEvaluation(professorID, userID uint, values CriteriaValues, existing *models.Evaluation) error {
	if existing != nil {
		updates := make(map[string]interface{}, len(models.EvaluationCriteria))
		for _, criterion := range models.EvaluationCriteria {
			updates[criterion.Key] = values[criterion.Key]
		}
		return db.DB.Model(existing).Updates(updates).Error
	}

	evaluation := models.Evaluation{
		ProfessorID: professorID,
		UserID:      userID,
	}
	for _, criterion := range models.EvaluationCriteria {
		evaluation.SetCriterionValue(criterion.Key, values[criterion.Key])
	}
	return db.DB.Create(&evaluation).Error
}

// DeleteEvaluation removes the user's evaluation of the professor.
// Returns ErrNotFound when no evaluation exists.
func DeleteEvaluation(professorID, userID uint) error {
	result := db.DB.Where("professor_id = ? AND user_id = ?", professorID, userID).
		Delete(&models.Evaluation{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// GetProfessorAverages computes the per-criterion average and row count
// for one professor, in declared criterion order. Returns an empty
// slice when the professor has no evaluations; callers must treat that
// as "no data", not as all-zero ratings (1 is the rating floor).
//
// Every evaluation row sets all criteria at once, so the count is the
// same for each criterion. The aggregator relies on that; it does not
// verify it.
func GetProfessorAverages(professorID uint) ([]CriterionStat, error) {
	var agg struct {
		Count         int64
		Teaching      float64
		Knowledge     float64
		Communication float64
		Fairness      float64
		Availability  float64
	}

	err := db.DB.Model(&models.Evaluation{}).
		Select("COUNT(*) AS count, AVG(teaching) AS teaching, AVG(knowledge) AS knowledge, AVG(communication) AS communication, AVG(fairness) AS fairness, AVG(availability) AS availability").
		Where("professor_id = ?", professorID).
		Scan(&agg).Error
	if err != nil {
		return nil, err
	}
	if agg.Count == 0 {
		return nil, nil
	}

	averages := map[string]float64{
		"teaching":      agg.Teaching,
		"knowledge":     agg.Knowledge,
		"communication": agg.Communication,
		"fairness":      agg.Fairness,
		"availability":  agg.Availability,
	}

	stats := make([]CriterionStat, 0, len(models.EvaluationCriteria))
	for _, criterion := range models.EvaluationCriteria {
		stats = append(stats, CriterionStat{
			Key:     criterion.Key,
			Name:    criterion.Name,
			Average: math.Round(averages[criterion.Key]*100) / 100,
			Count:   agg.Count,
		})
	}
	return stats, nil
}

// ChartPayload shapes criterion stats for direct chart consumption.
// total_evaluations is the first criterion's count; see
// GetProfessorAverages for why the counts are uniform.
func ChartPayload(stats []CriterionStat) map[string]interface{} {
	labels := make([]string, len(stats))
	averages := make([]float64, len(stats))
	counts := make([]int64, len(stats))
	for i, stat := range stats {
		labels[i] = stat.Name
		averages[i] = stat.Average
		counts[i] = stat.Count
	}

	var total int64
	if len(stats) > 0 {
		total = stats[0].Count
	}

	return map[string]interface{}{
		"labels":            labels,
		"averages":          averages,
		"counts":            counts,
		"max_value":         EvaluationMax,
		"min_value":         EvaluationMin,
		"total_evaluations": total,
	}
}
