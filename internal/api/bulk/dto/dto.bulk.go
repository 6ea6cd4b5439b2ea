package bulkdto

// BulkRowsInput là đầu vào của các hàm bulk: danh sách dòng đã mã hoá.
// Format rỗng thì đoán theo dòng đầu tiên
type BulkRowsInput struct {
	Rows      []string `json:"rows" validate:"required,min=1,max=10000"`
	Format    string   `json:"format" validate:"omitempty,oneof=legacy framed"`
	CompanyID string   `json:"companyId" validate:"omitempty,object_id"`
}
