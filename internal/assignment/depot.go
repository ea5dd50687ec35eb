package assignment

// ResolveDepot 车场归属解析：显式指定 > 车辆所属车场 > 司机常驻车场。
// 纯函数，查询由调用方完成。
func ResolveDepot(explicitDepotID, vehicleDepotID, driverHomeDepotID string) string {
	if explicitDepotID != "" {
		return explicitDepotID
	}
	if vehicleDepotID != "" {
		return vehicleDepotID
	}
	return driverHomeDepotID
}
