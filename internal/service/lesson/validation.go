package lesson

import (
	"fmt"

	"lectern/internal/config"
	"lectern/internal/domain"
	models "lectern/internal/domain/models/lesson"
	lessonSvc "lectern/internal/domain/services/lesson"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/go-ozzo/ozzo-validation/v4/is"
)

// VersionPolicy configures authoring rules that vary by deployment
type VersionPolicy struct {
	// RequireLayoutType rejects version creation without an explicit layout type
	// instead of defaulting to the single layout
	RequireLayoutType bool
}

func layoutTypeValues() []interface{} {
	values := make([]interface{}, len(models.LayoutTypes))
	for i, t := range models.LayoutTypes {
		values[i] = string(t)
	}
	return values
}

func assetTypeValues() []interface{} {
	values := make([]interface{}, len(models.AssetTypes))
	for i, t := range models.AssetTypes {
		values[i] = string(t)
	}
	return values
}

// validationError converts an ozzo error into a 400; errors.Is(err, domain.ErrValidation) holds
func validationError(err error) error {
	if err == nil {
		return nil
	}
	return &domain.ValidationError{Message: fmt.Sprintf("%v: %v", domain.ErrValidation, err)}
}

func validateCreateLesson(req *lessonSvc.CreateLessonRequest) error {
	return validationError(validation.ValidateStruct(req,
		validation.Field(&req.SectionID, validation.Required),
		validation.Field(&req.Title,
			validation.Required,
			validation.Length(1, config.MaxLessonTitleLength),
		),
		validation.Field(&req.Position, validation.Min(0)),
	))
}

func validateUpdateLesson(req *lessonSvc.UpdateLessonRequest) error {
	return validationError(validation.ValidateStruct(req,
		validation.Field(&req.Title,
			validation.NilOrNotEmpty,
			validation.Length(1, config.MaxLessonTitleLength),
		),
		validation.Field(&req.Position, validation.Min(0)),
	))
}

func validateMetadata(m *models.VersionMetadata) error {
	if m == nil {
		return nil
	}
	return validation.ValidateStruct(m,
		validation.Field(&m.Objective, validation.Length(0, config.MaxObjectiveLength)),
		validation.Field(&m.EstimatedTime, validation.Min(0)),
	)
}

func validateCreateVersion(req *lessonSvc.CreateVersionRequest, policy VersionPolicy) error {
	layoutRules := []validation.Rule{validation.In(layoutTypeValues()...).Error("must be a known layout type")}
	if policy.RequireLayoutType && req.FromVersionID == nil {
		layoutRules = append([]validation.Rule{validation.Required}, layoutRules...)
	}

	if err := validation.ValidateStruct(req,
		validation.Field(&req.LessonID, validation.Required),
		validation.Field(&req.LayoutType, layoutRules...),
		validation.Field(&req.FromVersionID, validation.NilOrNotEmpty),
	); err != nil {
		return validationError(err)
	}
	return validationError(validateMetadata(req.Metadata))
}

func validateUpdateVersion(req *lessonSvc.UpdateVersionRequest) error {
	if err := validation.ValidateStruct(req,
		validation.Field(&req.LayoutType,
			validation.NilOrNotEmpty,
			validation.In(layoutTypeValues()...).Error("must be a known layout type"),
		),
	); err != nil {
		return validationError(err)
	}
	return validationError(validateMetadata(req.Metadata))
}

func validateAddBlock(req *lessonSvc.AddBlockRequest) error {
	return validationError(validation.ValidateStruct(req,
		validation.Field(&req.Type,
			validation.Required,
			validation.Length(1, config.MaxBlockTypeLength),
		),
		validation.Field(&req.SlotID,
			validation.Required,
			validation.Length(1, config.MaxSlotIDLength),
		),
		validation.Field(&req.OrderIndex, validation.Min(0)),
	))
}

func validateUpdateBlock(req *lessonSvc.UpdateBlockRequest) error {
	return validationError(validation.ValidateStruct(req,
		validation.Field(&req.SlotID,
			validation.NilOrNotEmpty,
			validation.Length(1, config.MaxSlotIDLength),
		),
		validation.Field(&req.OrderIndex, validation.Min(0)),
	))
}

func validateAttachAsset(req *lessonSvc.AttachAssetRequest) error {
	return validationError(validation.ValidateStruct(req,
		validation.Field(&req.Type,
			validation.Required,
			validation.In(assetTypeValues()...).Error("must be one of image, video, pdf, document, audio"),
		),
		validation.Field(&req.Filename,
			validation.Required,
			validation.Length(1, config.MaxAssetFilenameLength),
		),
		validation.Field(&req.URL,
			validation.Required,
			validation.Length(1, config.MaxAssetURLLength),
			is.URL,
		),
		validation.Field(&req.PreviewURL,
			validation.NilOrNotEmpty,
			validation.Length(1, config.MaxAssetURLLength),
			is.URL,
		),
		validation.Field(&req.FileSize, validation.Min(int64(0))),
	))
}

func validateRecordProgress(req *lessonSvc.RecordProgressRequest) error {
	return validationError(validation.ValidateStruct(req,
		validation.Field(&req.StudentID, validation.Required),
		validation.Field(&req.LessonID, validation.Required),
		validation.Field(&req.Progress,
			validation.Min(0),
			validation.Max(config.MaxProgress),
		),
	))
}
