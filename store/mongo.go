// store/mongo.go
package store

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/CareO-HQ/careo-sub009/audit"
	"github.com/CareO-HQ/careo-sub009/models"
)

// Mongo implements audit.Store on a MongoDB database. Every mutating method
// is a single driver call, which is what makes it atomic against concurrent
// callers: find-or-create is one upsert, a history append is one $push+$set.
type Mongo struct {
	templates     *mongo.Collection
	runs          *mongo.Collection
	plans         *mongo.Collection
	notifications *mongo.Collection
	residentItems *mongo.Collection
}

func NewMongo(db *mongo.Database) *Mongo {
	return &Mongo{
		templates:     db.Collection("auditTemplates"),
		runs:          db.Collection("auditRuns"),
		plans:         db.Collection("actionPlans"),
		notifications: db.Collection("notifications"),
		residentItems: db.Collection("residentAuditItems"),
	}
}

// EnsureIndexes creates the indexes the engine's guarantees lean on. The
// unique partial index on open runs is the backstop for the one-open-run
// invariant: even a racing pair of upserts cannot leave two open runs behind.
func (m *Mongo) EnsureIndexes(ctx context.Context) error {
	_, err := m.runs.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{
			{Key: "templateId", Value: 1},
			{Key: "organizationId", Value: 1},
			{Key: "teamId", Value: 1},
		},
		Options: options.Index().
			SetUnique(true).
			SetPartialFilterExpression(bson.M{"open": true}),
	})
	if err != nil {
		return fmt.Errorf("create open-run index: %w", err)
	}

	_, err = m.plans.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{Keys: bson.D{{Key: "runId", Value: 1}}},
		{Keys: bson.D{{Key: "assignedTo", Value: 1}, {Key: "isNew", Value: 1}}},
		{Keys: bson.D{{Key: "organizationId", Value: 1}, {Key: "teamId", Value: 1}}},
	})
	if err != nil {
		return fmt.Errorf("create plan indexes: %w", err)
	}

	_, err = m.notifications.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{{Key: "userId", Value: 1}, {Key: "createdAt", Value: -1}},
	})
	if err != nil {
		return fmt.Errorf("create notification index: %w", err)
	}
	return nil
}

// --- templates ---

func (m *Mongo) InsertTemplate(ctx context.Context, t *models.Template) error {
	_, err := m.templates.InsertOne(ctx, t)
	return err
}

func (m *Mongo) GetTemplate(ctx context.Context, id primitive.ObjectID) (*models.Template, error) {
	var t models.Template
	err := m.templates.FindOne(ctx, bson.M{"_id": id}).Decode(&t)
	if err == mongo.ErrNoDocuments {
		return nil, fmt.Errorf("%w: template %s", audit.ErrNotFound, id.Hex())
	}
	if err != nil {
		return nil, err
	}
	return &t, nil
}

func (m *Mongo) PatchTemplate(ctx context.Context, id primitive.ObjectID, patch audit.Patch) (bool, error) {
	res, err := m.templates.UpdateOne(ctx, bson.M{"_id": id}, bson.M{"$set": bson.M(patch)})
	if err != nil {
		return false, err
	}
	return res.MatchedCount > 0, nil
}

func (m *Mongo) ListTemplates(ctx context.Context, f audit.TemplateFilter) ([]models.Template, error) {
	filter := bson.M{}
	if !f.OrganizationID.IsZero() {
		filter["organizationId"] = f.OrganizationID
	}
	if !f.TeamID.IsZero() {
		filter["teamId"] = f.TeamID
	}
	if f.Category != "" {
		filter["category"] = f.Category
	}
	if f.ActiveOnly {
		filter["isActive"] = true
	}

	templates := []models.Template{}
	cursor, err := m.templates.Find(ctx, filter, options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}}))
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)
	if err := cursor.All(ctx, &templates); err != nil {
		return nil, err
	}
	return templates, nil
}

func (m *Mongo) DeleteTemplateCascade(ctx context.Context, id primitive.ObjectID) (int64, int64, error) {
	// Children first, template last, so a partial failure leaves the
	// template visible and the cascade retryable.
	planRes, err := m.plans.DeleteMany(ctx, bson.M{"templateId": id})
	if err != nil {
		return 0, 0, err
	}
	runRes, err := m.runs.DeleteMany(ctx, bson.M{"templateId": id})
	if err != nil {
		return runRes.DeletedCount, planRes.DeletedCount, err
	}
	if _, err := m.templates.DeleteOne(ctx, bson.M{"_id": id}); err != nil {
		return runRes.DeletedCount, planRes.DeletedCount, err
	}
	return runRes.DeletedCount, planRes.DeletedCount, nil
}

// --- runs ---

func (m *Mongo) FindOrCreateOpenRun(ctx context.Context, candidate *models.AuditRun) (*models.AuditRun, bool, error) {
	filter := bson.M{
		"templateId":     candidate.TemplateID,
		"organizationId": candidate.OrganizationID,
		"open":           true,
	}
	if !candidate.TeamID.IsZero() {
		filter["teamId"] = candidate.TeamID
	}

	// The equality fields of the filter (ids and the open marker) are
	// copied into the inserted document by the upsert itself.
	doc := runDoc(candidate)

	opts := options.FindOneAndUpdate().
		SetUpsert(true).
		SetReturnDocument(options.After)

	var run models.AuditRun
	err := m.runs.FindOneAndUpdate(ctx, filter, bson.M{"$setOnInsert": doc}, opts).Decode(&run)
	if mongo.IsDuplicateKeyError(err) {
		// Lost the upsert race against the unique open-run index; the
		// winner's run is now there to find.
		err = m.runs.FindOneAndUpdate(ctx, filter, bson.M{"$setOnInsert": doc}, opts).Decode(&run)
	}
	if mongo.IsDuplicateKeyError(err) {
		return nil, false, fmt.Errorf("%w: open run for template %s", audit.ErrConcurrency, candidate.TemplateID.Hex())
	}
	if err != nil {
		return nil, false, err
	}
	return &run, run.ID == candidate.ID, nil
}

func (m *Mongo) GetRun(ctx context.Context, id primitive.ObjectID) (*models.AuditRun, error) {
	var run models.AuditRun
	err := m.runs.FindOne(ctx, bson.M{"_id": id}).Decode(&run)
	if err == mongo.ErrNoDocuments {
		return nil, fmt.Errorf("%w: run %s", audit.ErrNotFound, id.Hex())
	}
	if err != nil {
		return nil, err
	}
	return &run, nil
}

func (m *Mongo) PatchOpenRun(ctx context.Context, id primitive.ObjectID, patch audit.Patch) (bool, error) {
	set := bson.M(patch)
	if set["status"] == models.RunStatusCompleted {
		// Completion drops the run out of the open-run index.
		set["open"] = false
	}
	res, err := m.runs.UpdateOne(ctx, bson.M{"_id": id, "open": true}, bson.M{"$set": set})
	if err != nil {
		return false, err
	}
	return res.MatchedCount > 0, nil
}

func (m *Mongo) ListRuns(ctx context.Context, f audit.RunFilter) ([]models.AuditRun, error) {
	filter := bson.M{}
	if !f.TemplateID.IsZero() {
		filter["templateId"] = f.TemplateID
	}
	if !f.OrganizationID.IsZero() {
		filter["organizationId"] = f.OrganizationID
	}
	if !f.TeamID.IsZero() {
		filter["teamId"] = f.TeamID
	}
	if len(f.Statuses) > 0 {
		filter["status"] = bson.M{"$in": f.Statuses}
	}

	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}})
	if f.Limit > 0 {
		opts.SetLimit(int64(f.Limit))
	}

	runs := []models.AuditRun{}
	cursor, err := m.runs.Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)
	if err := cursor.All(ctx, &runs); err != nil {
		return nil, err
	}
	return runs, nil
}

// runDoc flattens a run for $setOnInsert; inserting the struct directly would
// fight with the filter fields.
func runDoc(r *models.AuditRun) bson.M {
	doc := bson.M{
		"_id":          r.ID,
		"templateName": r.TemplateName,
		"category":     r.Category,
		"status":       r.Status,
		"items":        r.Items,
		"auditedBy":    r.AuditedBy,
		"createdAt":    r.CreatedAt,
		"updatedAt":    r.UpdatedAt,
	}
	if r.AuditedByName != "" {
		doc["auditedByName"] = r.AuditedByName
	}
	if r.OverallNotes != "" {
		doc["overallNotes"] = r.OverallNotes
	}
	return doc
}

// --- action plans ---

func (m *Mongo) InsertPlan(ctx context.Context, p *models.ActionPlan) error {
	_, err := m.plans.InsertOne(ctx, p)
	return err
}

func (m *Mongo) GetPlan(ctx context.Context, id primitive.ObjectID) (*models.ActionPlan, error) {
	var p models.ActionPlan
	err := m.plans.FindOne(ctx, bson.M{"_id": id}).Decode(&p)
	if err == mongo.ErrNoDocuments {
		return nil, fmt.Errorf("%w: plan %s", audit.ErrNotFound, id.Hex())
	}
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (m *Mongo) AppendPlanStatus(ctx context.Context, id primitive.ObjectID, entry models.PlanStatusEntry, patch audit.Patch) (bool, error) {
	res, err := m.plans.UpdateOne(ctx, bson.M{"_id": id}, bson.M{
		"$push": bson.M{"statusHistory": entry},
		"$set":  bson.M(patch),
	})
	if err != nil {
		return false, err
	}
	return res.MatchedCount > 0, nil
}

func (m *Mongo) PatchPlan(ctx context.Context, id primitive.ObjectID, patch audit.Patch) (bool, error) {
	res, err := m.plans.UpdateOne(ctx, bson.M{"_id": id}, bson.M{"$set": bson.M(patch)})
	if err != nil {
		return false, err
	}
	return res.MatchedCount > 0, nil
}

func (m *Mongo) PatchPlansByAssignee(ctx context.Context, assignee string, patch audit.Patch) (int64, error) {
	res, err := m.plans.UpdateMany(ctx, bson.M{"assignedTo": assignee}, bson.M{"$set": bson.M(patch)})
	if err != nil {
		return 0, err
	}
	return res.ModifiedCount, nil
}

func (m *Mongo) DeletePlan(ctx context.Context, id primitive.ObjectID) (bool, error) {
	res, err := m.plans.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return false, err
	}
	return res.DeletedCount > 0, nil
}

func (m *Mongo) ListPlans(ctx context.Context, f audit.PlanFilter) ([]models.ActionPlan, error) {
	plans := []models.ActionPlan{}
	cursor, err := m.plans.Find(ctx, planFilter(f), options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}}))
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)
	if err := cursor.All(ctx, &plans); err != nil {
		return nil, err
	}
	return plans, nil
}

func (m *Mongo) CountPlans(ctx context.Context, f audit.PlanFilter) (int64, error) {
	return m.plans.CountDocuments(ctx, planFilter(f))
}

func planFilter(f audit.PlanFilter) bson.M {
	filter := bson.M{}
	if !f.RunID.IsZero() {
		filter["runId"] = f.RunID
	}
	if !f.TemplateID.IsZero() {
		filter["templateId"] = f.TemplateID
	}
	if !f.OrganizationID.IsZero() {
		filter["organizationId"] = f.OrganizationID
	}
	if !f.TeamID.IsZero() {
		filter["teamId"] = f.TeamID
	}
	if f.AssignedTo != "" {
		filter["assignedTo"] = f.AssignedTo
	}
	if f.UnreadOnly {
		filter["isNew"] = true
	}
	return filter
}

// --- notifications ---

func (m *Mongo) InsertNotification(ctx context.Context, n *models.Notification) error {
	_, err := m.notifications.InsertOne(ctx, n)
	return err
}

func (m *Mongo) ListNotificationsForUser(ctx context.Context, userID string) ([]models.Notification, error) {
	notifications := []models.Notification{}
	cursor, err := m.notifications.Find(ctx, bson.M{"userId": userID},
		options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}}))
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)
	if err := cursor.All(ctx, &notifications); err != nil {
		return nil, err
	}
	return notifications, nil
}

func (m *Mongo) MarkNotificationRead(ctx context.Context, id primitive.ObjectID) (bool, error) {
	res, err := m.notifications.UpdateOne(ctx, bson.M{"_id": id}, bson.M{"$set": bson.M{"isRead": true}})
	if err != nil {
		return false, err
	}
	return res.MatchedCount > 0, nil
}

// --- resident audit items ---

func (m *Mongo) InsertResidentItem(ctx context.Context, item *models.ResidentAuditItem) error {
	_, err := m.residentItems.InsertOne(ctx, item)
	return err
}

func (m *Mongo) ListResidentItems(ctx context.Context, residentID primitive.ObjectID) ([]models.ResidentAuditItem, error) {
	items := []models.ResidentAuditItem{}
	cursor, err := m.residentItems.Find(ctx, bson.M{"residentId": residentID})
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)
	if err := cursor.All(ctx, &items); err != nil {
		return nil, err
	}
	return items, nil
}
