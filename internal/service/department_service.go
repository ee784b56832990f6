package service

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/MahmoudHadrab1/HU-Tech-Train-main/internal/dto"
	"github.com/MahmoudHadrab1/HU-Tech-Train-main/internal/models"
	"github.com/MahmoudHadrab1/HU-Tech-Train-main/internal/upstream"
	"github.com/MahmoudHadrab1/HU-Tech-Train-main/internal/view"
	appErrors "github.com/MahmoudHadrab1/HU-Tech-Train-main/pkg/errors"
	"github.com/MahmoudHadrab1/HU-Tech-Train-main/pkg/export"
	"github.com/MahmoudHadrab1/HU-Tech-Train-main/pkg/upload"
)

// Roster export formats.
const (
	RosterFormatPDF = "pdf"
	RosterFormatCSV = "csv"
)

var rosterHeaders = []string{"#", "Student Name", "Student ID", "Department", "Company", "Training Status"}

type departmentBackend interface {
	DepartmentStudents(ctx context.Context, token string) ([]models.Student, error)
	PendingApplications(ctx context.Context, token string) ([]models.Application, error)
	UploadOfficialDocument(ctx context.Context, token, id string, doc *upload.File) (upstream.Result, error)
}

type csvRenderer interface {
	Render(data export.Dataset) ([]byte, error)
}

type pdfRenderer interface {
	Render(data export.Dataset, heading export.TableHeading) ([]byte, error)
}

// RosterFile is a rendered roster export.
type RosterFile struct {
	Filename    string
	ContentType string
	Data        []byte
}

// DepartmentService backs the department head dashboard.
type DepartmentService struct {
	backend     departmentBackend
	csv         csvRenderer
	pdf         pdfRenderer
	fileBaseURL string
	logger      *zap.Logger
	busy        *inFlight
	now         func() time.Time
}

// NewDepartmentService constructs a DepartmentService.
func NewDepartmentService(backend departmentBackend, csv csvRenderer, pdf pdfRenderer, fileBaseURL string, logger *zap.Logger) *DepartmentService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if csv == nil {
		csv = export.NewCSVExporter()
	}
	if pdf == nil {
		pdf = export.NewPDFExporter()
	}
	return &DepartmentService{
		backend:     backend,
		csv:         csv,
		pdf:         pdf,
		fileBaseURL: fileBaseURL,
		logger:      logger,
		busy:        newInFlight(),
		now:         time.Now,
	}
}

// Students lists students in the requested buckets. Counts always cover the
// whole department.
func (s *DepartmentService) Students(ctx context.Context, p *models.Principal, q dto.StudentQuery) (*dto.StudentList, error) {
	students, err := s.backend.DepartmentStudents(ctx, p.Token)
	if err != nil {
		return nil, err
	}
	filtered := view.FilterStudents(students, view.ParseBuckets(q.Status), q.Search)
	rows := make([]dto.StudentRow, 0, len(filtered))
	for _, st := range filtered {
		rows = append(rows, studentRow(st))
	}
	return &dto.StudentList{Counts: view.CountBuckets(students), Students: rows}, nil
}

// StudentDetail shows one student's documents for every approved application
// that already carries an official document.
func (s *DepartmentService) StudentDetail(ctx context.Context, p *models.Principal, id string) (*dto.StudentDetail, error) {
	students, err := s.backend.DepartmentStudents(ctx, p.Token)
	if err != nil {
		return nil, err
	}
	for _, st := range students {
		if st.ID != id && st.StudentID != id {
			continue
		}
		detail := &dto.StudentDetail{StudentRow: studentRow(st), Applications: make([]view.DocumentSet, 0)}
		for _, app := range st.Applications {
			if app.Status != models.StatusApproved || app.OfficialDocument == "" {
				continue
			}
			detail.Applications = append(detail.Applications, view.Documents(app, s.fileBaseURL))
		}
		if len(detail.Applications) == 0 {
			detail.Empty = true
			detail.EmptyMessage = view.NoDocumentsMessage
		}
		return detail, nil
	}
	return nil, appErrors.Clone(appErrors.ErrNotFound, "student not found")
}

// Pending lists approved applications still waiting for the official document.
func (s *DepartmentService) Pending(ctx context.Context, p *models.Principal) ([]dto.RequestView, error) {
	apps, err := s.backend.PendingApplications(ctx, p.Token)
	if err != nil {
		return nil, err
	}
	out := make([]dto.RequestView, 0, len(apps))
	for _, app := range apps {
		out = append(out, dto.RequestView{
			Application: app,
			View:        view.DeriveApplication(app),
			Documents:   view.Documents(app, s.fileBaseURL),
		})
	}
	return out, nil
}

// UploadDocument attaches the official training document to an application.
func (s *DepartmentService) UploadDocument(ctx context.Context, p *models.Principal, id string, doc *upload.File) (string, error) {
	if strings.TrimSpace(id) == "" {
		return "", appErrors.Clone(appErrors.ErrValidation, "application id is required")
	}
	if doc == nil {
		return "", appErrors.Clone(appErrors.ErrValidation, "Please choose a PDF document to upload")
	}
	if err := upload.RequirePDF(doc); err != nil {
		return "", appErrors.Clone(appErrors.ErrValidation, "Only PDF files are allowed")
	}
	release, err := s.busy.acquire("document:" + id)
	if err != nil {
		return "", err
	}
	defer release()

	res, err := s.backend.UploadOfficialDocument(ctx, p.Token, id, doc)
	if err != nil {
		return "", err
	}
	s.logger.Info("official document uploaded", zap.String("application_id", id), zap.Int64("bytes", doc.Size()))
	return messageOr(res.Message, "Document Uploaded Successfully. Student status has been updated to IN_TRAINING"), nil
}

// Roster renders the students currently in training or completed.
func (s *DepartmentService) Roster(ctx context.Context, p *models.Principal, q dto.RosterQuery) (*RosterFile, error) {
	format := strings.ToLower(strings.TrimSpace(q.Format))
	if format == "" {
		format = RosterFormatPDF
	}
	if format != RosterFormatPDF && format != RosterFormatCSV {
		return nil, appErrors.Clone(appErrors.ErrValidation, "format must be pdf or csv")
	}
	students, err := s.backend.DepartmentStudents(ctx, p.Token)
	if err != nil {
		return nil, err
	}
	dataset := export.Dataset{Headers: rosterHeaders}
	for _, st := range students {
		if !view.Printable(st) {
			continue
		}
		dataset.Rows = append(dataset.Rows, map[string]string{
			"#":               strconv.Itoa(len(dataset.Rows) + 1),
			"Student Name":    st.Name,
			"Student ID":      st.StudentID,
			"Department":      st.Department,
			"Company":         view.AssignedCompany(st),
			"Training Status": view.BucketLabel(view.Bucket(st)),
		})
	}
	if len(dataset.Rows) == 0 {
		return nil, appErrors.Clone(appErrors.ErrPreconditionFailed, "No Students to Print")
	}

	now := s.now()
	stamp := now.Format("2006-01-02")
	if format == RosterFormatCSV {
		data, err := s.csv.Render(dataset)
		if err != nil {
			return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to render roster")
		}
		return &RosterFile{Filename: fmt.Sprintf("training-students-%s.csv", stamp), ContentType: "text/csv", Data: data}, nil
	}
	data, err := s.pdf.Render(dataset, export.TableHeading{
		Title:       "Students in Training",
		Subtitle:    firstNonEmpty(p.User.Department, "Department of Computer Science"),
		GeneratedAt: now,
	})
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to render roster")
	}
	return &RosterFile{Filename: fmt.Sprintf("training-students-%s.pdf", stamp), ContentType: upload.PDFMime, Data: data}, nil
}

func studentRow(st models.Student) dto.StudentRow {
	bucket := view.Bucket(st)
	return dto.StudentRow{
		Student:     st,
		Bucket:      bucket,
		BucketLabel: view.BucketLabel(bucket),
		RowLabel:    view.RowLabel(st),
		Company:     view.AssignedCompany(st),
	}
}
